package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devkit/internal/telemetry/logger"
	"github.com/yndnr/devkit/pkg/stub"
)

// RenderCommand returns the render command.
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a stub file to a destination",
		ArgsUsage: "STUB DEST",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "set",
				Aliases: []string{"s"},
				Usage:   "Placeholder replacement as KEY=VALUE (repeatable)",
			},
		},
		Action: runRender,
	}
}

func parsePlaceholders(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid placeholder %q (want KEY=VALUE)", pair)
		}
		out[key] = value
	}
	return out, nil
}

func runRender(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	if c.NArg() != 2 {
		return fmt.Errorf("render requires STUB and DEST arguments")
	}
	src, dest := c.Args().Get(0), c.Args().Get(1)

	placeholders, err := parsePlaceholders(c.StringSlice("set"))
	if err != nil {
		return err
	}

	env.Logger.Debug("rendering stub",
		"stub", src,
		"dest", dest,
		"placeholders", logger.RedactMap(placeholders),
	)

	if err := stub.Render(src, dest, placeholders); err != nil {
		return err
	}

	return env.Print(map[string]any{
		"stub":         src,
		"dest":         dest,
		"placeholders": len(placeholders),
	})
}
