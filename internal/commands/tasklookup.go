package commands

import (
	"context"
	"errors"
	"fmt"

	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

// errOutOfRange is returned when a position is past the end of the list.
var errOutOfRange = errors.New("task number out of range")

// resolveTask turns a reference into a backend id. Positions are resolved
// against the tasks the filter lists right now.
func resolveTask(ctx context.Context, svc service.Service, filter service.Filter, ref TaskRef) (service.ID, error) {
	if ref.HasID() {
		return ref.ID, nil
	}
	if ref.Num < 1 {
		return "", fmt.Errorf("%w: %d", errOutOfRange, ref.Num)
	}

	tasks, err := svc.ListTasks(ctx, filter)
	if err != nil {
		return "", err
	}
	if ref.Num > len(tasks) {
		return "", fmt.Errorf("%w: %d", errOutOfRange, ref.Num)
	}

	return tasks[ref.Num-1].ID, nil
}

// taskCommand holds what done, reopen and rm share: the listing filter that
// positions refer to and the reference itself.
type taskCommand struct {
	filter string
	args   []string
}

// target parses the reference and resolves it. On failure it prints the
// error and returns the exit code to use.
func (c *taskCommand) target(ctx context.Context, env *Env) (service.ID, int, bool) {
	ref, err := ParseTaskRef(c.args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(env.ErrOut, "error: task reference required")
		} else {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		}
		return "", exitcode.UserError, false
	}

	filter, err := service.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return "", exitcode.UserError, false
	}

	id, err := resolveTask(ctx, env.Service, filter, ref)
	if err != nil {
		if errors.Is(err, errOutOfRange) {
			fmt.Fprintf(env.ErrOut, "error: task number out of range: %d\n", ref.Num)
			return "", exitcode.UserError, false
		}
		fmt.Fprintf(env.ErrOut, "error: backend error: %v\n", err)
		return "", exitcode.BackendError, false
	}

	env.Logger.Debugf("task reference %s resolved to id %s", ref, id)
	return id, exitcode.Success, true
}
