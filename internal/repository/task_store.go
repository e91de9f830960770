package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tasktrack/internal/model"
)

type storeState int

const (
	stateUninitialized storeState = iota
	stateReady
	stateClosed
)

// TaskStore is the durable, keyed collection of tasks. One store owns one
// SQLite database for its whole lifetime; data operations are only valid
// between Initialize and Close. The store assumes a single logical owner:
// data operations may run concurrently, lifecycle transitions may not.
type TaskStore struct {
	path  string
	db    *gorm.DB
	state storeState
}

func NewTaskStore(path string) *TaskStore {
	return &TaskStore{path: path}
}

// Initialize opens (or creates) the backing database and ensures the tasks
// table exists. Calling it on an already-initialized store is a no-op;
// a closed store stays closed.
func (s *TaskStore) Initialize() error {
	switch s.state {
	case stateReady:
		return nil
	case stateClosed:
		return ErrClosed
	}

	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("task store: open %s: %w", s.path, err)
	}
	if err := db.AutoMigrate(&taskRow{}); err != nil {
		return fmt.Errorf("task store: ensure schema: %w", err)
	}

	s.db = db
	s.state = stateReady
	return nil
}

func (s *TaskStore) ready() error {
	switch s.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateClosed:
		return ErrClosed
	}
	return nil
}

// Add persists a new task keyed by its id. The insert either lands the
// whole row or fails with ErrDuplicateID leaving nothing behind.
func (s *TaskStore) Add(ctx context.Context, task *model.Task) error {
	if err := s.ready(); err != nil {
		return err
	}
	row := rowFromTask(task)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("task store: add %q: %w", task.ID(), err)
	}
	return nil
}

// GetAll returns every stored task, most recently created first. The
// result is never nil.
func (s *TaskStore) GetAll(ctx context.Context) ([]*model.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var rows []taskRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("task store: list: %w", err)
	}
	tasks := make([]*model.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetByID returns the matching task, or nil with no error when the id is
// absent. Callers must treat a nil task as "not found", not as a fault.
func (s *TaskStore) GetByID(ctx context.Context, id string) (*model.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var row taskRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("task store: get %q: %w", id, err)
	}
	return row.toTask()
}

// TaskPatch carries a partial update. Nil pointer fields keep the stored
// value; DueDateSet distinguishes "due_date supplied as null" (clear) from
// "due_date not supplied" (keep).
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	DueDateSet  bool
}

// Update merges the patch over the stored row and rebuilds the task through
// the validating constructor, so create and update enforce invariants in
// exactly one place. A patch that would break an invariant is rejected
// wholesale; id and createdAt always carry over unchanged.
func (s *TaskStore) Update(ctx context.Context, id string, patch TaskPatch) (*model.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var row taskRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("task store: update %q: %w", id, err)
	}
	existing, err := row.toTask()
	if err != nil {
		return nil, err
	}

	params := model.Params{
		ID:          existing.ID(),
		Title:       existing.Title(),
		Description: existing.Description(),
		Completed:   existing.Completed(),
		DueDate:     existing.DueDate(),
		CreatedAt:   existing.CreatedAt(),
	}
	if patch.Title != nil {
		params.Title = *patch.Title
	}
	if patch.Description != nil {
		params.Description = *patch.Description
	}
	if patch.Completed != nil {
		params.Completed = *patch.Completed
	}
	if patch.DueDateSet {
		params.DueDate = patch.DueDate
	}

	merged, err := model.New(params)
	if err != nil {
		return nil, err
	}

	updated := rowFromTask(merged)
	if err := s.db.WithContext(ctx).Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("task store: update %q: %w", id, err)
	}
	return merged, nil
}

// Delete removes the row if present. Deleting an absent id is a no-op by
// contract, unlike Update.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("task store: delete %q: %w", id, err)
	}
	return nil
}

// Count returns the total number of stored tasks.
func (s *TaskStore) Count(ctx context.Context) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&taskRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("task store: count: %w", err)
	}
	return n, nil
}

// CompletedCount returns the number of stored tasks marked completed.
func (s *TaskStore) CompletedCount(ctx context.Context) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&taskRow{}).Where("completed = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("task store: completed count: %w", err)
	}
	return n, nil
}

// Clear removes every row. Succeeds trivially on an empty store.
func (s *TaskStore) Clear(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Exec("DELETE FROM tasks").Error; err != nil {
		return fmt.Errorf("task store: clear: %w", err)
	}
	return nil
}

// Close releases the backing connection. Safe to call repeatedly and safe
// on a store that was never initialized; Closed is terminal either way.
func (s *TaskStore) Close() error {
	if s.state != stateReady {
		s.state = stateClosed
		return nil
	}
	s.state = stateClosed
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("task store: close: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("task store: close: %w", err)
	}
	return nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
