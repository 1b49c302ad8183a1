package services

import (
	"time"

	"github.com/taskboard/core/internal/domain/entities"
)

// calendarCells is the fixed month-grid size: 6 full weeks.
const calendarCells = 42

// maxDayIndicators caps the per-cell indicator dots; the rest collapse into
// an overflow count.
const maxDayIndicators = 3

// BoardColumn is one status group of the board projection.
type BoardColumn struct {
	Status entities.Status
	Title  string
	Tasks  []entities.TaskRecord
}

// ProjectBoard partitions records into the four fixed status columns,
// preserving collection order within each column. The input is not mutated.
func ProjectBoard(records []entities.TaskRecord) []BoardColumn {
	columns := make([]BoardColumn, 0, len(entities.Statuses))
	for _, status := range entities.Statuses {
		col := BoardColumn{Status: status, Title: status.Label()}
		for _, r := range records {
			if r.Status == status {
				col.Tasks = append(col.Tasks, r)
			}
		}
		columns = append(columns, col)
	}
	return columns
}

// CalendarCell is one day of the month grid.
type CalendarCell struct {
	Date    time.Time
	InMonth bool
	Today   bool
	Tasks   []entities.TaskRecord
	Overdue bool
}

// HasTasks reports whether any record's due date falls on this day.
func (c CalendarCell) HasTasks() bool {
	return len(c.Tasks) > 0
}

// Indicators returns the records shown as dots on the cell, at most three.
func (c CalendarCell) Indicators() []entities.TaskRecord {
	if len(c.Tasks) <= maxDayIndicators {
		return c.Tasks
	}
	return c.Tasks[:maxDayIndicators]
}

// Overflow is the count of bucketed records beyond the indicator cap.
func (c CalendarCell) Overflow() int {
	if len(c.Tasks) <= maxDayIndicators {
		return 0
	}
	return len(c.Tasks) - maxDayIndicators
}

// ProjectCalendar buckets records into the 42-cell grid for the given month:
// the first day of the month back to the preceding Sunday, spanning six full
// weeks. A record lands in the cell whose calendar date equals its due date.
// A cell is overdue when at least one of its records is not completed and
// its due date lies before now's calendar day.
func ProjectCalendar(records []entities.TaskRecord, year int, month time.Month, now time.Time) []CalendarCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]CalendarCell, 0, calendarCells)
	for i := 0; i < calendarCells; i++ {
		date := start.AddDate(0, 0, i)
		cell := CalendarCell{
			Date:    date,
			InMonth: date.Month() == month,
			Today:   entities.SameDay(date, now),
		}
		for _, r := range records {
			if r.DueDate == nil || !entities.SameDay(*r.DueDate, date) {
				continue
			}
			cell.Tasks = append(cell.Tasks, r)
			if r.Status != entities.StatusCompleted && entities.IsOverdue(r.DueDate, now) {
				cell.Overdue = true
			}
		}
		cells = append(cells, cell)
	}
	return cells
}
