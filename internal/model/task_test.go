package model_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tasktrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureDate(d time.Duration) *time.Time {
	due := time.Now().Add(d)
	return &due
}

func TestNewTask(t *testing.T) {
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk"})
	require.NoError(t, err)

	assert.Equal(t, "t1", task.ID())
	assert.Equal(t, "Buy milk", task.Title())
	assert.Equal(t, "", task.Description())
	assert.False(t, task.Completed())
	assert.Nil(t, task.DueDate())
	assert.WithinDuration(t, time.Now(), task.CreatedAt(), time.Second)
}

func TestNewTaskKeepsExplicitCreatedAt(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk", CreatedAt: createdAt})
	require.NoError(t, err)
	assert.True(t, task.CreatedAt().Equal(createdAt))
}

func TestNewTaskTitleValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr error
	}{
		{"empty", "", model.ErrEmptyTitle},
		{"whitespace only", "   \t ", model.ErrEmptyTitle},
		{"too long", strings.Repeat("a", 256), model.ErrTitleTooLong},
		{"max length ok", strings.Repeat("a", 255), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := model.New(model.Params{ID: "t1", Title: tt.title})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, task.Title())
		})
	}
}

func TestNewTaskEmptyID(t *testing.T) {
	_, err := model.New(model.Params{ID: "", Title: "Buy milk"})
	assert.ErrorIs(t, err, model.ErrEmptyID)

	// Title is validated before the id.
	_, err = model.New(model.Params{ID: "", Title: ""})
	assert.ErrorIs(t, err, model.ErrEmptyTitle)
}

func TestNewTaskPastDueDate(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	_, err := model.New(model.Params{ID: "t1", Title: "Buy milk", DueDate: &past})
	assert.ErrorIs(t, err, model.ErrPastDueDate)

	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk", DueDate: futureDate(time.Hour)})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate())
}

func TestUpdateTitle(t *testing.T) {
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk"})
	require.NoError(t, err)

	assert.ErrorIs(t, task.UpdateTitle(" "), model.ErrEmptyTitle)
	assert.Equal(t, "Buy milk", task.Title())

	assert.ErrorIs(t, task.UpdateTitle(strings.Repeat("x", 256)), model.ErrTitleTooLong)
	assert.Equal(t, "Buy milk", task.Title())

	require.NoError(t, task.UpdateTitle("Buy bread"))
	assert.Equal(t, "Buy bread", task.Title())
}

func TestUpdateDescription(t *testing.T) {
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk", Description: "2 liters"})
	require.NoError(t, err)

	task.UpdateDescription("")
	assert.Equal(t, "", task.Description())

	task.UpdateDescription("whole milk")
	assert.Equal(t, "whole milk", task.Description())
}

func TestCompleteReopenIdempotent(t *testing.T) {
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk"})
	require.NoError(t, err)

	task.Complete()
	task.Complete()
	assert.True(t, task.Completed())

	task.Reopen()
	assert.False(t, task.Completed())

	task.Complete()
	assert.True(t, task.Completed())
}

func TestSetDueDate(t *testing.T) {
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk", DueDate: futureDate(time.Hour)})
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	assert.ErrorIs(t, task.SetDueDate(&past), model.ErrPastDueDate)
	require.NotNil(t, task.DueDate())

	// nil always clears, no validation.
	require.NoError(t, task.SetDueDate(nil))
	assert.Nil(t, task.DueDate())

	require.NoError(t, task.SetDueDate(futureDate(2*time.Hour)))
	require.NotNil(t, task.DueDate())
}

func TestIsOverdue(t *testing.T) {
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk"})
	require.NoError(t, err)
	assert.False(t, task.IsOverdue(), "no due date")

	require.NoError(t, task.SetDueDate(futureDate(time.Hour)))
	assert.False(t, task.IsOverdue(), "due date in the future")

	// A past due date can only exist on a restored task: the clock check
	// runs at set time, not at read time.
	past := time.Now().Add(-time.Hour)
	stale, err := model.Restore(model.Snapshot{
		ID:        "t2",
		Title:     "Pay rent",
		CreatedAt: time.Now().Add(-48 * time.Hour),
		DueDate:   &past,
	})
	require.NoError(t, err)
	assert.True(t, stale.IsOverdue())

	stale.Complete()
	assert.False(t, stale.IsOverdue(), "completed tasks are never overdue")
}

func TestRestoreStructuralValidation(t *testing.T) {
	_, err := model.Restore(model.Snapshot{ID: "t1", Title: " "})
	assert.ErrorIs(t, err, model.ErrEmptyTitle)

	_, err = model.Restore(model.Snapshot{ID: "", Title: "Buy milk"})
	assert.ErrorIs(t, err, model.ErrEmptyID)
}

func TestSnapshotRoundTrip(t *testing.T) {
	task, err := model.New(model.Params{
		ID:          "t1",
		Title:       "Buy milk",
		Description: "2 liters",
		DueDate:     futureDate(24 * time.Hour),
	})
	require.NoError(t, err)
	task.Complete()

	data, err := json.Marshal(task.Snapshot())
	require.NoError(t, err)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored, err := model.Restore(snap)
	require.NoError(t, err)

	assert.Equal(t, task.ID(), restored.ID())
	assert.Equal(t, task.Title(), restored.Title())
	assert.Equal(t, task.Description(), restored.Description())
	assert.Equal(t, task.Completed(), restored.Completed())
	assert.True(t, task.CreatedAt().Equal(restored.CreatedAt()))
	require.NotNil(t, restored.DueDate())
	assert.True(t, task.DueDate().Equal(*restored.DueDate()))
}

func TestCopyIndependence(t *testing.T) {
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk", DueDate: futureDate(time.Hour)})
	require.NoError(t, err)

	dup := task.Copy()
	assert.Equal(t, task.ID(), dup.ID())
	assert.Equal(t, task.Title(), dup.Title())
	assert.True(t, task.DueDate().Equal(*dup.DueDate()))

	originalDue := *task.DueDate()
	require.NoError(t, dup.SetDueDate(futureDate(72*time.Hour)))
	assert.True(t, task.DueDate().Equal(originalDue), "mutating the copy must not touch the original")

	// The getter hands out a copy as well.
	leaked := task.DueDate()
	*leaked = leaked.Add(time.Hour)
	assert.True(t, task.DueDate().Equal(originalDue))
}

func TestDescribe(t *testing.T) {
	task, err := model.New(model.Params{ID: "t1", Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "[ ] Buy milk", task.Describe())

	due := time.Now().AddDate(0, 0, 7)
	require.NoError(t, task.SetDueDate(&due))
	task.Complete()
	assert.Equal(t, "[x] Buy milk (due "+due.Format("2006-01-02")+")", task.Describe())
}
