package command

import (
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devkit/internal/cli/output"
	"github.com/yndnr/devkit/pkg/lazyconfig"
)

var labelFlag = &cli.StringFlag{
	Name:    "label",
	Aliases: []string{"l"},
	Usage:   "Group label (default: every configured file)",
}

// LoadCommand returns the load command.
func LoadCommand() *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "Load and decode the files of a group",
		Flags: []cli.Flag{
			labelFlag,
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Report progress on stderr while loading",
			},
		},
		Action: runLoad,
	}
}

// CountCommand returns the count command.
func CountCommand() *cli.Command {
	return &cli.Command{
		Name:   "count",
		Usage:  "Count the files of a group without reading them",
		Flags:  []cli.Flag{labelFlag},
		Action: runCount,
	}
}

// LabelsCommand returns the labels command.
func LabelsCommand() *cli.Command {
	return &cli.Command{
		Name:   "labels",
		Usage:  "List configured group labels",
		Action: runLabels,
	}
}

// fileResult is one decoded file.
type fileResult struct {
	Index int    `json:"index" yaml:"index"`
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value"`
}

type loadResults []fileResult

func (r loadResults) Table(wide bool) *output.Table {
	t := &output.Table{Headers: []string{"INDEX", "PATH", "VALUE"}}
	for _, f := range r {
		t.AddRow(strconv.Itoa(f.Index), f.Path, output.Cell(f.Value, wide))
	}
	return t
}

func runLoad(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	loader, err := env.Loader()
	if err != nil {
		return err
	}

	label := c.String("label")
	coll, err := collection(loader, label)
	if err != nil {
		return err
	}

	results, err := drain(coll, c.Bool("progress"), env)
	if err != nil {
		return err
	}

	if env.Config.Cache.Dir != "" {
		if err := saveSnapshot(env.Context(c.Context), env, label, results); err != nil {
			env.Logger.Warn("failed to save snapshot",
				"label", label,
				"error", err,
			)
		}
	}

	return env.Print(results)
}

// drain reads every file of coll in order. Nothing is returned on failure.
func drain(coll *lazyconfig.Collection[any], progress bool, env *Env) (loadResults, error) {
	var p *output.Progress
	if progress {
		p = output.NewProgress(env.Err, "loading", coll.Count())
		defer p.Finish()
	}

	results := make(loadResults, 0, coll.Count())
	it := coll.Iter()
	for it.Next() {
		results = append(results, fileResult{
			Index: it.Index(),
			Path:  it.Path(),
			Value: it.Value(),
		})
		if p != nil {
			p.Step(it.Path())
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

type countResult struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

func (r countResult) Table(bool) *output.Table {
	label := r.Label
	if label == "" {
		label = "*"
	}
	t := &output.Table{Headers: []string{"LABEL", "COUNT"}}
	t.AddRow(label, strconv.Itoa(r.Count))
	return t
}

func runCount(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	loader, err := env.Loader()
	if err != nil {
		return err
	}

	label := c.String("label")
	coll, err := collection(loader, label)
	if err != nil {
		return err
	}
	return env.Print(countResult{Label: label, Count: coll.Count()})
}

type labelInfo struct {
	Label string   `json:"label" yaml:"label"`
	Files []string `json:"files" yaml:"files"`
}

type labelList []labelInfo

func (l labelList) Table(wide bool) *output.Table {
	t := &output.Table{Headers: []string{"LABEL", "FILES"}}
	for _, info := range l {
		files := strconv.Itoa(len(info.Files))
		if wide {
			files = strings.Join(info.Files, ",")
		}
		t.AddRow(info.Label, files)
	}
	return t
}

func runLabels(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	table, err := env.Config.Table()
	if err != nil {
		return err
	}

	// A repeated label replaces the earlier group.
	files := make(map[string][]string)
	for _, g := range env.Config.Groups {
		if g.Label != "" {
			files[g.Label] = g.Files
		}
	}

	list := make(labelList, 0, len(files))
	for _, label := range table.Labels() {
		list = append(list, labelInfo{Label: label, Files: files[label]})
	}
	return env.Print(list)
}
