package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/devkit/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Settings management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective settings",
				Action: runConfigShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the settings file",
				Action: runConfigValidate,
			},
		},
	}
}

type settingsView struct {
	Path     string         `json:"path" yaml:"path"`
	Settings *config.Config `json:"settings" yaml:"settings"`
}

func runConfigShow(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	path := env.ConfigPath
	if path == "" {
		path = "(defaults)"
	}
	return env.Print(settingsView{Path: path, Settings: env.Config})
}

// runConfigValidate also checks that the groups form a valid path table.
func runConfigValidate(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	table, err := env.Config.Table()
	if err != nil {
		return err
	}
	return env.Print(map[string]any{
		"valid":   true,
		"entries": table.Len(),
		"labels":  len(table.Labels()),
	})
}
