package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/exitcode"
)

func init() {
	Register(func() Command { return &HelpCmd{} })
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) Register(cmd *kingpin.CmdClause) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasklist                                       Open the interactive task view
  tasklist ui [common flags]                     Open the interactive task view
  tasklist list [common flags] [--filter <f>] [--html]
  tasklist add [common flags] [--description <text>] <title...>
  tasklist done [common flags] [--filter <f>] <ref>
  tasklist reopen [common flags] [--filter <f>] <ref>
  tasklist rm [common flags] [--filter <f>] [--yes] <ref>
  tasklist page [common flags] [--filter <f>] [--title <t>] [--description <d>]
  tasklist help
  tasklist version

Filters: all (default), pending, completed.
References: <n> is the n-th task of the listed filter, @<id> a backend id.

Common flags:
  --config <dir>     Override config directory
  --url <base-url>   Backend base URL (default http://localhost:8080)
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
  --logger <type>    Log format: default or json
`
