package model

import (
	"fmt"
	"strings"
	"time"
)

const maxTitleLength = 255

// Task is the single domain entity of the service. Fields are unexported so
// every change goes through a mutator that re-checks the invariants: the
// title is never empty or over 255 characters, the id is never empty, and
// createdAt is fixed for the life of the entity.
type Task struct {
	id          string
	title       string
	description string
	completed   bool
	createdAt   time.Time
	dueDate     *time.Time
}

// Params carries the caller-supplied fields for New. The id is assigned by
// the caller; a zero CreatedAt means "now".
type Params struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	CreatedAt   time.Time
}

// New constructs a validated Task. Checks run in order: title, id, due date;
// the first failure wins and no entity is produced.
func New(p Params) (*Task, error) {
	if err := validateTitle(p.Title); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, ErrEmptyID
	}
	if err := validateDueDate(p.DueDate); err != nil {
		return nil, err
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &Task{
		id:          p.ID,
		title:       p.Title,
		description: p.Description,
		completed:   p.Completed,
		createdAt:   createdAt,
		dueDate:     cloneTime(p.DueDate),
	}, nil
}

// Restore rebuilds a Task from persisted or serialized state. Structural
// invariants are still enforced, but the due date is not re-checked against
// the clock: it was valid when it was set, and a stored task whose due date
// has since passed must remain readable.
func Restore(s Snapshot) (*Task, error) {
	if err := validateTitle(s.Title); err != nil {
		return nil, err
	}
	if s.ID == "" {
		return nil, ErrEmptyID
	}
	return &Task{
		id:          s.ID,
		title:       s.Title,
		description: s.Description,
		completed:   s.Completed,
		createdAt:   s.CreatedAt,
		dueDate:     cloneTime(s.DueDate),
	}, nil
}

func (t *Task) ID() string           { return t.id }
func (t *Task) Title() string        { return t.title }
func (t *Task) Description() string  { return t.description }
func (t *Task) Completed() bool      { return t.completed }
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// DueDate returns a copy of the due date, or nil when none is set.
func (t *Task) DueDate() *time.Time { return cloneTime(t.dueDate) }

// Complete marks the task done. Completing a completed task is a no-op.
func (t *Task) Complete() { t.completed = true }

// Reopen clears the completed flag. Reopening an open task is a no-op.
func (t *Task) Reopen() { t.completed = false }

// UpdateTitle replaces the title after validating it; on failure the
// current title is untouched.
func (t *Task) UpdateTitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	t.title = title
	return nil
}

// UpdateDescription replaces the description. Any string is accepted.
func (t *Task) UpdateDescription(description string) {
	t.description = description
}

// SetDueDate replaces the due date. nil always clears it; a non-nil date is
// re-checked against the clock.
func (t *Task) SetDueDate(due *time.Time) error {
	if err := validateDueDate(due); err != nil {
		return err
	}
	t.dueDate = cloneTime(due)
	return nil
}

// IsOverdue reports whether the due date has passed on a task that is not
// completed. It is recomputed from the clock on every call, never cached.
func (t *Task) IsOverdue() bool {
	return t.dueDate != nil && !t.completed && t.dueDate.Before(time.Now())
}

// Snapshot is the structural transport form of a Task. It round-trips
// through encoding/json without field loss.
type Snapshot struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Snapshot captures all six fields for transport or persistence.
func (t *Task) Snapshot() Snapshot {
	return Snapshot{
		ID:          t.id,
		Title:       t.title,
		Description: t.description,
		Completed:   t.completed,
		CreatedAt:   t.createdAt,
		DueDate:     cloneTime(t.dueDate),
	}
}

// Describe renders a one-line summary, e.g. "[x] Buy milk (due 2026-03-01)".
func (t *Task) Describe() string {
	marker := "[ ]"
	if t.completed {
		marker = "[x]"
	}
	if t.dueDate != nil {
		return fmt.Sprintf("%s %s (due %s)", marker, t.title, t.dueDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s %s", marker, t.title)
}

// Copy returns an independent task sharing no mutable state with t.
func (t *Task) Copy() *Task {
	dup := *t
	dup.dueDate = cloneTime(t.dueDate)
	return &dup
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	// Raw length, not the trimmed one.
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateDueDate(due *time.Time) error {
	if due != nil && due.Before(time.Now()) {
		return ErrPastDueDate
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	dup := *t
	return &dup
}
