package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yndnr/devkit/pkg/lazyconfig"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Table converts the configured groups into a path table.
func (c *Config) Table() (*lazyconfig.PathTable, error) {
	entries := make([]lazyconfig.Entry, 0, len(c.Groups))
	for _, g := range c.Groups {
		if g.Label == "" {
			entries = append(entries, lazyconfig.Paths(g.Files...))
			continue
		}
		entries = append(entries, lazyconfig.Group(g.Label, g.Files...))
	}
	return lazyconfig.NewPathTable(entries...)
}
