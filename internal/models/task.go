package models

import (
	"math"
	"time"
)

// Priority is the business priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists all priorities, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns the sort weight of a priority (High=3, Medium=2, Low=1).
// Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// Statuses lists all statuses in workflow order.
var Statuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a single sales task.
// Field names match the flat record format served by task sources.
type Task struct {
	ID          string     `json:"id" yaml:"id" toml:"id"`
	Title       string     `json:"title" yaml:"title" toml:"title"`
	Revenue     float64    `json:"revenue" yaml:"revenue" toml:"revenue"`
	TimeTaken   float64    `json:"timeTaken" yaml:"timeTaken" toml:"timeTaken"` // hours, always > 0 once stored
	Priority    Priority   `json:"priority" yaml:"priority" toml:"priority"`
	Status      TaskStatus `json:"status" yaml:"status" toml:"status"`
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"` // set on first transition into Done
}

// IsDone returns true if the task is in the Done status.
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}

// TaskInput is the payload used to create a task.
// ID is optional; the store assigns one when empty.
type TaskInput struct {
	ID        string
	Title     string
	Revenue   float64
	TimeTaken float64
	Priority  Priority
	Status    TaskStatus
	Notes     string
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Revenue   *float64
	TimeTaken *float64
	Priority  *Priority
	Status    *TaskStatus
	Notes     *string
}

// ClampTimeTaken coerces a non-positive, NaN or infinite duration to 1 hour.
func ClampTimeTaken(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 1) {
		return 1
	}
	return v
}
