package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
	taskx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/task"
)

type PostgresConfig struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"8"`
	PingTimeout  time.Duration `envconfig:"PING_TIMEOUT" split_words:"true" default:"5s"`
}

// NewDB opens a bun handle over pgdriver and verifies connectivity.
func NewDB(cfg PostgresConfig) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// PostgresTaskStore implements task.Store. Every mutation is a single
// SQL statement, so concurrent passes never interleave a
// read-modify-write on the same task row.
type PostgresTaskStore struct {
	db *bun.DB
}

var _ taskx.Store = (*PostgresTaskStore)(nil)

func NewPostgresTaskStore(db *bun.DB) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

func (s *PostgresTaskStore) Insert(ctx context.Context, t *taskx.Task) error {
	if _, err := s.db.NewInsert().Model(t).Exec(ctx); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *PostgresTaskStore) List(ctx context.Context, ownerID uuid.UUID, filter taskx.Filter) ([]taskx.Task, error) {
	var tasks []taskx.Task

	q := s.db.NewSelect().
		Model(&tasks).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC", "id DESC")

	switch filter {
	case taskx.FilterCompleted:
		q = q.Where("completed")
	case taskx.FilterIncomplete:
		q = q.Where("NOT completed")
	case taskx.FilterAll:
	default:
		return nil, fmt.Errorf("%w: %q", taskx.ErrInvalidFilter, filter)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresTaskStore) ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID, now time.Time) (*taskx.Task, error) {
	t := new(taskx.Task)
	res, err := s.db.NewUpdate().
		Model(t).
		Set("completed = NOT completed").
		Set("updated_at = ?", now.UTC()).
		Where("id = ?", taskID).
		Where("owner_id = ?", ownerID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, taskx.ErrNotFound
	}
	return t, nil
}

func (s *PostgresTaskStore) Rename(ctx context.Context, ownerID, taskID uuid.UUID, title string, now time.Time) (*taskx.Task, error) {
	t := new(taskx.Task)
	res, err := s.db.NewUpdate().
		Model(t).
		Set("title = ?", title).
		Set("updated_at = ?", now.UTC()).
		Where("id = ?", taskID).
		Where("owner_id = ?", ownerID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("rename task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, taskx.ErrNotFound
	}
	return t, nil
}

func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*taskx.Task, error) {
	t := new(taskx.Task)
	res, err := s.db.NewDelete().
		Model(t).
		Where("id = ?", taskID).
		Where("owner_id = ?", ownerID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, taskx.ErrNotFound
	}
	return t, nil
}

// PostgresConvoStore implements convo.Store.
type PostgresConvoStore struct {
	db *bun.DB
}

var _ convox.Store = (*PostgresConvoStore)(nil)

func NewPostgresConvoStore(db *bun.DB) *PostgresConvoStore {
	return &PostgresConvoStore{db: db}
}

func (s *PostgresConvoStore) GetConversation(ctx context.Context, ownerID, id uuid.UUID) (*convox.Conversation, error) {
	c := new(convox.Conversation)
	err := s.db.NewSelect().
		Model(c).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, convox.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return c, nil
}

func (s *PostgresConvoStore) InsertConversation(ctx context.Context, c *convox.Conversation) error {
	if _, err := s.db.NewInsert().Model(c).Exec(ctx); err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (s *PostgresConvoStore) TouchConversation(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.db.NewUpdate().
		Model((*convox.Conversation)(nil)).
		Set("updated_at = ?", at.UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

func (s *PostgresConvoStore) AppendMessage(ctx context.Context, m *convox.Message) error {
	if _, err := s.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *PostgresConvoStore) RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]convox.Message, error) {
	var msgs []convox.Message
	err := s.db.NewSelect().
		Model(&msgs).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}

	// Query returns newest first; history wants oldest first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
