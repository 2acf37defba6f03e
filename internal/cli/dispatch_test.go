package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/cli"
	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/log"
	"tasklist/internal/service"
	"tasklist/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService
// and remembers the config it was built with.
func testFactory(svc *testutil.FakeService, gotCfg **config.Config) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, logger log.Logger) (service.Service, error) {
		if gotCfg != nil {
			*gotCfg = cfg
		}
		return svc, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, stdin string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvURL, "")

	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, strings.NewReader(stdin), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	stdout, stderr, code := run(t, d, "", "unknowncmd")

	assert.Equal(t, exitcode.UserError, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "error: "), stderr)
	assert.Contains(t, stderr, "unknowncmd")
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	_, stderr, code := run(t, d, "", "list", "--bogus")

	assert.Equal(t, exitcode.UserError, code)
	assert.True(t, strings.HasPrefix(stderr, "error: "), stderr)
	assert.Contains(t, stderr, "bogus")
}

func TestDispatcher_InvalidFilterFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	_, stderr, code := run(t, d, "", "list", "--filter", "later")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "later")
	assert.Empty(t, svc.Calls())
}

func TestDispatcher_Help(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	for _, arg := range []string{"help", "--help", "-h"} {
		t.Run(arg, func(t *testing.T) {
			stdout, stderr, code := run(t, d, "", arg)

			assert.Equal(t, exitcode.Success, code)
			assert.Empty(t, stderr)
			assert.Contains(t, stdout, "Usage:")
		})
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, d, "", "version")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "tasklist 0.1.0\n", stdout)
}

func TestDispatcher_List(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "", false)
	svc.AddTask("Call mom", "", true)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	tests := map[string]struct {
		args    []string
		expOut  string
		expLoad service.Filter
	}{
		"list": {
			args:    []string{"list"},
			expOut:  "   1  Pending    Buy milk\n      No description\n   2  Completed  Call mom\n      No description\n",
			expLoad: service.FilterAll,
		},
		"alias with short filter": {
			args:    []string{"ls", "-f", "completed"},
			expOut:  "   1  Completed  Call mom\n      No description\n",
			expLoad: service.FilterCompleted,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			before := len(svc.Calls())
			stdout, stderr, code := run(t, d, "", test.args...)

			assert.Equal(t, exitcode.Success, code)
			assert.Empty(t, stderr)
			assert.Equal(t, test.expOut, stdout)

			calls := svc.Calls()[before:]
			require.Len(t, calls, 1)
			assert.Equal(t, test.expLoad, calls[0].Filter)
		})
	}
}

func TestDispatcher_AddWithFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	stdout, stderr, code := run(t, d, "", "add", "-d", "2 liters", "Buy", "milk")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "Task created successfully!\n", stdout)
	require.Len(t, svc.Tasks(), 1)
	assert.Equal(t, "Buy milk", svc.Tasks()[0].Title)
	assert.Equal(t, "2 liters", svc.Tasks()[0].Description)
}

func TestDispatcher_QuietFlagAfterCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	stdout, stderr, code := run(t, d, "", "add", "x", "--quiet")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestDispatcher_RmPromptReadsStdin(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t", "", false)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	stdout, _, code := run(t, d, "yes\n", "rm", "1")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Task deleted successfully!\n", stdout)
	assert.Empty(t, svc.Tasks())
}

func TestDispatcher_URLPrecedence(t *testing.T) {
	tests := map[string]struct {
		file   string
		env    string
		flag   string
		expURL string
	}{
		"default":       {expURL: config.DefaultBaseURL},
		"file":          {file: "base_url: http://file:1\n", expURL: "http://file:1"},
		"env over file": {file: "base_url: http://file:1\n", env: "http://env:2", expURL: "http://env:2"},
		"flag over env": {env: "http://env:2", flag: "http://flag:3", expURL: "http://flag:3"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if test.file != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(test.file), 0600))
			}
			t.Setenv(config.EnvURL, test.env)

			var gotCfg *config.Config
			d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), &gotCfg))

			args := []string{"--config", dir, "list"}
			if test.flag != "" {
				args = append(args, "--url", test.flag)
			}

			var stdout, stderr bytes.Buffer
			code := d.Run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)

			assert.Equal(t, exitcode.Success, code, stderr.String())
			require.NotNil(t, gotCfg)
			assert.Equal(t, test.expURL, gotCfg.BaseURL)
			assert.Equal(t, dir, gotCfg.Dir)
		})
	}
}

func TestDispatcher_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("timeout: soon\n"), 0600))
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	_, stderr, code := run(t, d, "", "--config", dir, "list")

	assert.Equal(t, exitcode.ConfigError, code)
	assert.Contains(t, stderr, "invalid config.yaml")
}

func TestDispatcher_InvalidBackendURL(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, d, "", "list", "--url", "ftp://example.com")

	assert.Equal(t, exitcode.ConfigError, code)
	assert.Contains(t, stderr, "scheme must be http or https")
}

func TestDispatcher_DebugJSONLogs(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	stdout, stderr, code := run(t, d, "", "--debug", "--logger", "json", "list")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "No tasks found")
	assert.Contains(t, stderr, `"level":"debug"`)
	assert.Contains(t, stderr, `"cmd":"list"`)
}

func TestDispatcher_TaskRefByID(t *testing.T) {
	tests := map[string]struct {
		args         []string
		stdin        string
		expOut       string
		expCompleted bool
		expDeleted   bool
	}{
		"done":   {args: []string{"done"}, expOut: "Task completed!\n", expCompleted: true},
		"reopen": {args: []string{"reopen"}, expOut: "Task reopened!\n"},
		"rm":     {args: []string{"rm", "--yes"}, expOut: "Task deleted successfully!\n", expDeleted: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			svc.AddTask("first", "", false)
			id := svc.AddTask("second", "", false)
			d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

			args := append(test.args, "@"+id.String())
			stdout, stderr, code := run(t, d, test.stdin, args...)

			assert.Equal(t, exitcode.Success, code, stderr)
			assert.Empty(t, stderr)
			assert.Equal(t, test.expOut, stdout)

			tasks := svc.Tasks()
			if test.expDeleted {
				require.Len(t, tasks, 1)
				assert.Equal(t, "first", tasks[0].Title)
				return
			}
			require.Len(t, tasks, 2)
			assert.False(t, tasks[0].Completed)
			assert.Equal(t, test.expCompleted, tasks[1].Completed)
		})
	}
}

func TestDispatcher_NoLogsWithoutDebug(t *testing.T) {
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	_, stderr, code := run(t, d, "", "done", "@5")

	// Only the banner reaches stderr.
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "Error updating task\n", stderr)
}
