// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All REST calls go through this interface.
// The view and the commands never build HTTP requests directly.
type Service interface {
	// ListTasks returns the tasks selected by filter, in backend order
	// (no client-side sorting).
	ListTasks(ctx context.Context, filter Filter) ([]Task, error)

	// GetTask returns the full record for id.
	GetTask(ctx context.Context, id ID) (Task, error)

	// CreateTask creates a task from a payload without id and returns the
	// created record.
	CreateTask(ctx context.Context, task Task) (Task, error)

	// UpdateTask replaces the whole record identified by task.ID.
	UpdateTask(ctx context.Context, task Task) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id ID) error
}
