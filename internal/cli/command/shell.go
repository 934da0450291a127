package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devkit/internal/cli/repl"
)

var errNestedShell = errors.New("shell cannot be started from the shell")

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Run devkit commands interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file (default: <user config dir>/devkit/history, empty disables)",
				Value: defaultHistoryFile(),
			},
		},
		Action: runShell,
	}
}

func defaultHistoryFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "devkit", "history")
}

// shellWords lists every command path plus a "--label" form per label.
func shellWords(app *cli.App, labels []string) []string {
	words := []string{"exit", "quit", "history", "complete"}
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, cmd := range cmds {
			name := prefix + cmd.Name
			words = append(words, name)
			walk(name+" ", cmd.Subcommands)
		}
	}
	walk("", app.Commands)

	for _, label := range labels {
		for _, cmd := range []string{"load", "count", "watch", "cache get"} {
			words = append(words, cmd+" --label "+label)
		}
	}
	return words
}

func runShell(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	table, err := env.Config.Table()
	if err != nil {
		return err
	}

	// Every line runs on a fresh app with the global flags of this run.
	global := []string{
		"devkit",
		"--output", c.String("output"),
		"--log-level", env.Config.Log.Level,
		"--log-format", env.Config.Log.Format,
	}
	if env.ConfigPath != "" {
		global = append(global, "--config", env.ConfigPath)
	}
	if c.Bool("wide") {
		global = append(global, "--wide")
	}

	exec := func(ctx context.Context, args []string) error {
		if args[0] == "shell" {
			return errNestedShell
		}
		app := App()
		app.Reader = c.App.Reader
		app.Writer = env.Out
		app.ErrWriter = env.Err
		app.ExitErrHandler = func(*cli.Context, error) {}
		return app.RunContext(ctx, append(append([]string(nil), global...), args...))
	}

	r := repl.New(exec,
		repl.WithIO(c.App.Reader, env.Out),
		repl.WithPrompt("devkit> "),
		repl.WithCompleter(repl.NewCompleter(shellWords(c.App, table.Labels())...)),
		repl.WithHistory(repl.NewHistory(c.String("history"), repl.DefaultHistorySize)),
	)
	return r.Run(env.Context(c.Context))
}
