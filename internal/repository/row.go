package repository

import (
	"fmt"
	"time"

	"tasktrack/internal/model"
)

// timeLayout is fixed-width UTC so the textual created_at column sorts
// chronologically under ORDER BY.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// taskRow is the flat on-disk representation of one task: six columns,
// completed as 0/1, timestamps as sortable text, due_date nullable.
type taskRow struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	Completed   bool   `gorm:"not null"`
	CreatedAt   string `gorm:"not null"`
	DueDate     *string
}

func (taskRow) TableName() string { return "tasks" }

func rowFromTask(t *model.Task) taskRow {
	row := taskRow{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		Completed:   t.Completed(),
		CreatedAt:   formatTime(t.CreatedAt()),
	}
	if due := t.DueDate(); due != nil {
		s := formatTime(*due)
		row.DueDate = &s
	}
	return row
}

// toTask rebuilds a fresh entity from row data. Every read goes through
// here, so callers never hold a reference into the store's own state.
func (r taskRow) toTask() (*model.Task, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("task store: bad created_at for %q: %w", r.ID, err)
	}
	snap := model.Snapshot{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		CreatedAt:   createdAt,
	}
	if r.DueDate != nil {
		due, err := parseTime(*r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("task store: bad due_date for %q: %w", r.ID, err)
		}
		snap.DueDate = &due
	}
	return model.Restore(snap)
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(value string) (time.Time, error) { return time.Parse(timeLayout, value) }
