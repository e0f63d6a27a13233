// Package prompt drives the interactive questions of the editable CLI.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// SelectConfig configures a single choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// Driver abstracts the terminal so flows can be tested without one.
type Driver interface {
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

// NewSurveyDriver returns a Driver backed by survey.
func NewSurveyDriver() Driver {
	return surveyDriver{}
}

type surveyDriver struct{}

func (surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, translate(err)
	}
	for i, option := range cfg.Options {
		if option == out {
			return i, nil
		}
	}
	return -1, nil
}

func (surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translate(err)
	}
	return out, nil
}

func translate(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// Attribute asks which attribute of class to render. current preselects an
// attribute when it is one of the options.
func Attribute(ctx context.Context, driver Driver, class string, attributes []string, current string) (string, error) {
	if len(attributes) == 0 {
		return "", fmt.Errorf("prompt: class %q declares no attributes", class)
	}
	defaultIndex := 0
	for i, attr := range attributes {
		if attr == current {
			defaultIndex = i
		}
	}
	idx, err := driver.Select(ctx, SelectConfig{
		Message:      fmt.Sprintf("Attribute of %s to render", class),
		Options:      attributes,
		DefaultIndex: defaultIndex,
		PageSize:     10,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(attributes) {
		return "", fmt.Errorf("prompt: selection %d out of range", idx)
	}
	return attributes[idx], nil
}

// Editing asks whether the element should render in editable mode.
func Editing(ctx context.Context, driver Driver, current bool) (bool, error) {
	return driver.Confirm(ctx, ConfirmConfig{
		Message: "Render with in-place editing enabled?",
		Default: current,
		Help:    "Disabled elements render only their display value.",
	})
}
