package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const MaxTitleLen = 500

var (
	// ErrNotFound is returned for a missing task id and for an id owned
	// by a different user. Callers must not be able to tell them apart.
	ErrNotFound = errors.New("task not found")

	ErrEmptyTitle    = errors.New("task title is empty")
	ErrTitleTooLong  = errors.New("task title exceeds 500 characters")
	ErrInvalidFilter = errors.New("invalid task filter")
)

// Task is owned by exactly one user and is mutated only through tool
// contract executions.
type Task struct {
	bun.BaseModel `bun:"table:tasks"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	OwnerID   uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Completed bool      `bun:"completed,notnull,default:false" json:"completed"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// New builds a task with a fresh id and both timestamps set to now.
// The title must already be normalized via NormalizeTitle.
func New(ownerID uuid.UUID, title string, now time.Time) *Task {
	now = now.UTC()
	return &Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeTitle trims the raw title and enforces the 1..500 bound.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if len(title) > MaxTitleLen {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// Filter narrows a task listing.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// ParseFilter maps a raw filter value to a Filter. The empty string
// means FilterAll; anything else unrecognized is rejected, never
// silently ignored.
func ParseFilter(raw string) (Filter, error) {
	switch strings.TrimSpace(raw) {
	case "", string(FilterAll):
		return FilterAll, nil
	case string(FilterCompleted):
		return FilterCompleted, nil
	case string(FilterIncomplete):
		return FilterIncomplete, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
}

// Store is the persistence contract for tasks. Every mutating method is
// a single atomic row operation scoped by owner id: an id that exists
// under another owner behaves exactly like a missing id (ErrNotFound).
type Store interface {
	Insert(ctx context.Context, t *Task) error
	List(ctx context.Context, ownerID uuid.UUID, filter Filter) ([]Task, error)
	ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID, now time.Time) (*Task, error)
	Rename(ctx context.Context, ownerID, taskID uuid.UUID, title string, now time.Time) (*Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error)
}
