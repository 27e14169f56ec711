package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	taskx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/task"
)

const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolUpdateTask   = "update_task"
	ToolDeleteTask   = "delete_task"
)

// DefaultRegistry builds a fresh registry with the five task contracts.
// Call it once per orchestration pass.
func DefaultRegistry(store taskx.Store, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	r := NewRegistry()
	r.Register(&addTaskTool{store: store, now: now})
	r.Register(&listTasksTool{store: store})
	r.Register(&completeTaskTool{store: store, now: now})
	r.Register(&updateTaskTool{store: store, now: now})
	r.Register(&deleteTaskTool{store: store})
	return r
}

func ownerParam() *schema.ParameterInfo {
	return &schema.ParameterInfo{Type: schema.String, Desc: "Owner user id (set by the server, never by the model)", Required: true}
}

func uuidArg(args map[string]any, key string) (uuid.UUID, error) {
	raw, _ := args[key].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID", contractx.ErrInvalidArguments, key)
	}
	return id, nil
}

// wrapStoreErr maps store-level not-found onto the shared taxonomy.
func wrapStoreErr(err error) error {
	if errors.Is(err, taskx.ErrNotFound) {
		return fmt.Errorf("%w", contractx.ErrNotFound)
	}
	return err
}

/* -------------------------------- add_task ------------------------------- */

type addTaskTool struct {
	store taskx.Store
	now   func() time.Time
}

func (t *addTaskTool) Name() string { return ToolAddTask }

func (t *addTaskTool) Description() string {
	return "Create a new task for the user. Use this when the user wants to add, create, or remember something."
}

func (t *addTaskTool) Params() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"owner_id": ownerParam(),
		"title":    {Type: schema.String, Desc: "Task title extracted from the user's message", Required: true},
	}
}

func (t *addTaskTool) Results() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"task_id":    {Type: schema.String, Required: true},
		"title":      {Type: schema.String, Required: true},
		"completed":  {Type: schema.Boolean, Required: true},
		"created_at": {Type: schema.String, Required: true},
	}
}

func (t *addTaskTool) Execute(ctx context.Context, args map[string]any) (map[string]any, error) {
	ownerID, err := uuidArg(args, "owner_id")
	if err != nil {
		return nil, err
	}

	title, err := taskx.NormalizeTitle(args["title"].(string))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrInvalidArguments, err)
	}

	created := taskx.New(ownerID, title, t.now())
	if err := t.store.Insert(ctx, created); err != nil {
		return nil, err
	}

	return map[string]any{
		"task_id":    created.ID.String(),
		"title":      created.Title,
		"completed":  created.Completed,
		"created_at": created.CreatedAt.Format(time.RFC3339),
	}, nil
}

/* ------------------------------- list_tasks ------------------------------ */

type listTasksTool struct {
	store taskx.Store
}

func (t *listTasksTool) Name() string { return ToolListTasks }

func (t *listTasksTool) Description() string {
	return "Retrieve the user's tasks, newest first. Use this when the user wants to see, view, or check their tasks."
}

func (t *listTasksTool) Params() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"owner_id": ownerParam(),
		"filter":   {Type: schema.String, Desc: "Optional filter: 'all' (default), 'completed', or 'incomplete'"},
	}
}

func (t *listTasksTool) Results() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"tasks": {Type: schema.Array, Required: true},
		"count": {Type: schema.Integer, Required: true},
	}
}

func (t *listTasksTool) Execute(ctx context.Context, args map[string]any) (map[string]any, error) {
	ownerID, err := uuidArg(args, "owner_id")
	if err != nil {
		return nil, err
	}

	raw, _ := args["filter"].(string)
	filter, err := taskx.ParseFilter(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrInvalidArguments, err)
	}

	tasks, err := t.store.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(tasks))
	for _, tk := range tasks {
		items = append(items, map[string]any{
			"task_id":    tk.ID.String(),
			"title":      tk.Title,
			"completed":  tk.Completed,
			"created_at": tk.CreatedAt.Format(time.RFC3339),
		})
	}

	return map[string]any{
		"tasks": items,
		"count": len(items),
	}, nil
}

/* ----------------------------- complete_task ----------------------------- */

type completeTaskTool struct {
	store taskx.Store
	now   func() time.Time
}

func (t *completeTaskTool) Name() string { return ToolCompleteTask }

func (t *completeTaskTool) Description() string {
	return "Toggle a task between complete and incomplete. Use this when the user marks a task as done or undone."
}

func (t *completeTaskTool) Params() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"owner_id": ownerParam(),
		"task_id":  {Type: schema.String, Desc: "UUID of the task to toggle", Required: true},
	}
}

func (t *completeTaskTool) Results() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"task_id":    {Type: schema.String, Required: true},
		"title":      {Type: schema.String, Required: true},
		"completed":  {Type: schema.Boolean, Required: true},
		"updated_at": {Type: schema.String, Required: true},
	}
}

func (t *completeTaskTool) Execute(ctx context.Context, args map[string]any) (map[string]any, error) {
	ownerID, err := uuidArg(args, "owner_id")
	if err != nil {
		return nil, err
	}
	taskID, err := uuidArg(args, "task_id")
	if err != nil {
		return nil, err
	}

	toggled, err := t.store.ToggleCompleted(ctx, ownerID, taskID, t.now())
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return map[string]any{
		"task_id":    toggled.ID.String(),
		"title":      toggled.Title,
		"completed":  toggled.Completed,
		"updated_at": toggled.UpdatedAt.Format(time.RFC3339),
	}, nil
}

/* ------------------------------ update_task ------------------------------ */

type updateTaskTool struct {
	store taskx.Store
	now   func() time.Time
}

func (t *updateTaskTool) Name() string { return ToolUpdateTask }

func (t *updateTaskTool) Description() string {
	return "Update the title of an existing task. Use this when the user wants to change, modify, or rename a task."
}

func (t *updateTaskTool) Params() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"owner_id":  ownerParam(),
		"task_id":   {Type: schema.String, Desc: "UUID of the task to update", Required: true},
		"new_title": {Type: schema.String, Desc: "The new title for the task", Required: true},
	}
}

func (t *updateTaskTool) Results() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"task_id":    {Type: schema.String, Required: true},
		"title":      {Type: schema.String, Required: true},
		"updated_at": {Type: schema.String, Required: true},
	}
}

func (t *updateTaskTool) Execute(ctx context.Context, args map[string]any) (map[string]any, error) {
	ownerID, err := uuidArg(args, "owner_id")
	if err != nil {
		return nil, err
	}
	taskID, err := uuidArg(args, "task_id")
	if err != nil {
		return nil, err
	}

	title, err := taskx.NormalizeTitle(args["new_title"].(string))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrInvalidArguments, err)
	}

	renamed, err := t.store.Rename(ctx, ownerID, taskID, title, t.now())
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return map[string]any{
		"task_id":    renamed.ID.String(),
		"title":      renamed.Title,
		"updated_at": renamed.UpdatedAt.Format(time.RFC3339),
	}, nil
}

/* ------------------------------ delete_task ------------------------------ */

type deleteTaskTool struct {
	store taskx.Store
}

func (t *deleteTaskTool) Name() string { return ToolDeleteTask }

func (t *deleteTaskTool) Description() string {
	return "Permanently delete a task. Use this when the user wants to remove, delete, or clear a task from their list."
}

func (t *deleteTaskTool) Params() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"owner_id": ownerParam(),
		"task_id":  {Type: schema.String, Desc: "UUID of the task to delete", Required: true},
	}
}

func (t *deleteTaskTool) Results() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"success": {Type: schema.Boolean, Required: true},
		"task_id": {Type: schema.String, Required: true},
		"title":   {Type: schema.String, Required: true},
	}
}

func (t *deleteTaskTool) Execute(ctx context.Context, args map[string]any) (map[string]any, error) {
	ownerID, err := uuidArg(args, "owner_id")
	if err != nil {
		return nil, err
	}
	taskID, err := uuidArg(args, "task_id")
	if err != nil {
		return nil, err
	}

	deleted, err := t.store.Delete(ctx, ownerID, taskID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	// Last known title comes back so the engine can confirm by name.
	return map[string]any{
		"success": true,
		"task_id": deleted.ID.String(),
		"title":   deleted.Title,
	}, nil
}
