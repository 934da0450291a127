package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devkit/internal/cli/config"
	"github.com/yndnr/devkit/internal/cli/output"
	"github.com/yndnr/devkit/internal/infra/buildinfo"
	"github.com/yndnr/devkit/internal/telemetry/logger"
	"github.com/yndnr/devkit/internal/telemetry/metric"
)

const envKey = "devkit.env"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "devkit",
		Usage:   "Load label-grouped configuration files and render stubs",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoadCommand(),
			CountCommand(),
			LabelsCommand(),
			WatchCommand(),
			RenderCommand(),
			CacheCommand(),
			ConfigCommand(),
			VersionCommand(),
			ShellCommand(),
		},
		Metadata: make(map[string]any),
		Before:   setup,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Settings file (default: ./devkit.yaml, then the user config dir)",
			EnvVars: []string{"DEVKIT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Inline full values in table output",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error (overrides settings)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json (overrides settings)",
		},
	}
}

// Env is the per-run state shared by all commands.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Logger     logger.Logger
	Metrics    *metric.Registry
	RunID      string
	Formatter  output.Formatter
	Out        io.Writer
	Err        io.Writer
}

// Context returns ctx carrying the run logger and run ID.
func (e *Env) Context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithRunID(logger.WithLogger(ctx, e.Logger), e.RunID)
}

// Print writes data in the selected output format.
func (e *Env) Print(data any) error {
	return e.Formatter.Format(e.Out, data)
}

func setup(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	overrides := make(map[string]any)
	if v := c.String("log-level"); v != "" {
		overrides["log.level"] = v
	}
	if v := c.String("log-format"); v != "" {
		overrides["log.format"] = v
	}

	cfg, path, err := config.Load(c.String("config"), overrides)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return err
	}
	runID := logger.NewRunID()
	log = log.With("run_id", runID)
	logger.SetDefault(log)

	log.Debug("settings loaded",
		"path", path,
		"groups", len(cfg.Groups),
		"decoder", cfg.Decoder,
	)

	c.App.Metadata[envKey] = &Env{
		Config:     cfg,
		ConfigPath: path,
		Logger:     log,
		Metrics:    metric.NewRegistry(),
		RunID:      runID,
		Formatter:  output.NewFormatter(format, c.Bool("wide")),
		Out:        c.App.Writer,
		Err:        c.App.ErrWriter,
	}
	return nil
}

var errNoEnv = errors.New("command environment not initialized")

func envFrom(c *cli.Context) (*Env, error) {
	if e, ok := c.App.Metadata[envKey].(*Env); ok {
		return e, nil
	}
	return nil, errNoEnv
}
