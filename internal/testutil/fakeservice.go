// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"tasklist/internal/service"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = &service.StatusError{Code: http.StatusNotFound, Body: "not found"}

// Call is one recorded service call.
type Call struct {
	Method string
	Filter service.Filter
	ID     service.ID
	Task   service.Task
}

// FakeService is an in-memory implementation of service.Service for testing.
// It records every call so tests can count requests.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	calls  []Call

	// Error injection for testing
	ListTasksErr  error
	GetTaskErr    error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// ListHook, when set, runs inside ListTasks before the result is built.
	// Tests use it to hold a load in flight.
	ListHook func(ctx context.Context, filter service.Filter)
}

// Compile-time verification that *FakeService implements service.Service.
var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask adds a task and returns its id.
func (f *FakeService) AddTask(title, description string, completed bool) service.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := service.ID(strconv.Itoa(f.nextID))
	f.nextID++
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   completed,
	})
	return id
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns a copy of the recorded calls.
func (f *FakeService) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many calls of method were made.
func (f *FakeService) CallCount(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeService) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, filter service.Filter) ([]service.Task, error) {
	f.record(Call{Method: "ListTasks", Filter: filter})
	if f.ListHook != nil {
		f.ListHook(ctx, filter)
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := []service.Task{}
	for _, t := range f.tasks {
		if filter.Match(t) {
			result = append(result, t)
		}
	}
	return result, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id service.ID) (service.Task, error) {
	f.record(Call{Method: "GetTask", ID: id})
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, ErrNotFound
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.record(Call{Method: "CreateTask", Task: task})
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = service.ID(strconv.Itoa(f.nextID))
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.record(Call{Method: "UpdateTask", ID: task.ID, Task: task})
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = task
			return task, nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.ID) error {
	f.record(Call{Method: "DeleteTask", ID: id})
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
