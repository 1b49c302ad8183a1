package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
)

func rec(id string, status entities.Status, due *time.Time) entities.TaskRecord {
	return entities.TaskRecord{
		ID:       id,
		Title:    "task " + id,
		Status:   status,
		Priority: entities.PriorityMedium,
		DueDate:  due,
	}
}

func TestProjectBoardPartitionsByStatus(t *testing.T) {
	records := []entities.TaskRecord{
		rec("a", entities.StatusTodo, nil),
		rec("b", entities.StatusCompleted, nil),
		rec("c", entities.StatusTodo, nil),
		rec("d", entities.StatusReview, nil),
	}

	columns := ProjectBoard(records)
	require.Len(t, columns, 4)

	assert.Equal(t, entities.StatusTodo, columns[0].Status)
	assert.Equal(t, "To-Do", columns[0].Title)

	ids := func(col BoardColumn) []string {
		out := make([]string, 0, len(col.Tasks))
		for _, r := range col.Tasks {
			out = append(out, r.ID)
		}
		return out
	}

	// Collection order is preserved within each column.
	assert.Equal(t, []string{"a", "c"}, ids(columns[0]))
	assert.Empty(t, ids(columns[1]))
	assert.Equal(t, []string{"d"}, ids(columns[2]))
	assert.Equal(t, []string{"b"}, ids(columns[3]))

	// Every record lands in exactly one column.
	total := 0
	for _, col := range columns {
		total += len(col.Tasks)
	}
	assert.Equal(t, len(records), total)
}

func TestProjectBoardEmptyCollection(t *testing.T) {
	columns := ProjectBoard(nil)
	require.Len(t, columns, 4)
	for _, col := range columns {
		assert.Empty(t, col.Tasks)
	}
}

func TestProjectCalendarGridShape(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	cells := ProjectCalendar(nil, 2024, time.March, now)
	require.Len(t, cells, 42)

	// March 1st 2024 is a Friday; the grid starts on the preceding Sunday.
	assert.Equal(t, time.Sunday, cells[0].Date.Weekday())
	assert.Equal(t, time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC), cells[0].Date)
	assert.False(t, cells[0].InMonth)

	// Consecutive days throughout.
	for i := 1; i < len(cells); i++ {
		assert.Equal(t, cells[i-1].Date.AddDate(0, 0, 1), cells[i].Date)
	}
}

func TestProjectCalendarMonthStartingSunday(t *testing.T) {
	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	// September 1st 2024 is a Sunday, so the grid starts on the 1st itself.
	cells := ProjectCalendar(nil, 2024, time.September, now)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), cells[0].Date)
	assert.True(t, cells[0].InMonth)
	assert.True(t, cells[0].Today)
}

func TestProjectCalendarBucketsByDueDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)

	records := []entities.TaskRecord{
		rec("a", entities.StatusTodo, &due),
		rec("b", entities.StatusCompleted, &due),
		rec("c", entities.StatusTodo, nil),
	}

	cells := ProjectCalendar(records, 2024, time.March, now)

	var day *CalendarCell
	for i := range cells {
		if entities.SameDay(cells[i].Date, due) {
			day = &cells[i]
			break
		}
	}
	require.NotNil(t, day)
	require.Len(t, day.Tasks, 2)
	assert.True(t, day.HasTasks())

	// The 5th is before the 10th and one bucketed record is not completed.
	assert.True(t, day.Overdue)
}

func TestProjectCalendarCompletedNeverOverdue(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	records := []entities.TaskRecord{rec("a", entities.StatusCompleted, &due)}
	cells := ProjectCalendar(records, 2024, time.March, now)

	for _, cell := range cells {
		assert.False(t, cell.Overdue)
	}
}

func TestCalendarCellIndicatorsOverflow(t *testing.T) {
	tasks := []entities.TaskRecord{
		rec("a", entities.StatusTodo, nil),
		rec("b", entities.StatusTodo, nil),
		rec("c", entities.StatusTodo, nil),
		rec("d", entities.StatusTodo, nil),
		rec("e", entities.StatusTodo, nil),
	}

	cell := CalendarCell{Tasks: tasks}
	assert.Len(t, cell.Indicators(), 3)
	assert.Equal(t, 2, cell.Overflow())

	cell.Tasks = tasks[:2]
	assert.Len(t, cell.Indicators(), 2)
	assert.Zero(t, cell.Overflow())
}
