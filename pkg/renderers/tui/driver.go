package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Prompt identifies the form field a question is asked for. Drivers render
// Message indented by Depth.
type Prompt struct {
	Path    string
	Message string
	Help    string
	Depth   int
}

// InputConfig configures a single line answer. Validate, when set, rejects an
// answer before it reaches the form tree.
type InputConfig struct {
	Prompt
	Default     string
	Placeholder string
	Validate    func(string) error
}

// ConfirmConfig configures a yes/no question such as an optional group toggle.
type ConfirmConfig struct {
	Prompt
	Default bool
}

// SelectConfig configures enum choices. DefaultIndex is used by Select,
// Defaults by MultiSelect.
type SelectConfig struct {
	Prompt
	Options      []string
	DefaultIndex int
	Defaults     []int
	PageSize     int
}

// TextAreaConfig configures a multi-line answer.
type TextAreaConfig struct {
	Prompt
	Default string
}

// PromptDriver asks the questions of a session. The survey driver is used by
// default; tests script their own.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out   io.Writer
	theme Theme
}

func newSurveyDriver(out io.Writer, theme Theme) *surveyDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out, theme: theme}
}

func (d *surveyDriver) message(p Prompt) string {
	return d.theme.PromptPrefix + strings.Repeat(d.theme.Indent, p.Depth) + p.Message
}

func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, out any, opts ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := survey.AskOne(prompt, out, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var out string
	prompt := &survey.Input{Message: d.message(cfg.Prompt), Help: cfg.Help, Default: cfg.Default}
	err := d.ask(ctx, prompt, &out, validateWith(cfg.Validate)...)
	return out, err
}

// Password has no default: survey never echoes a stored secret.
func (d *surveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	var out string
	prompt := &survey.Password{Message: d.message(cfg.Prompt), Help: cfg.Help}
	err := d.ask(ctx, prompt, &out, validateWith(cfg.Validate)...)
	return out, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var out bool
	prompt := &survey.Confirm{Message: d.message(cfg.Prompt), Help: cfg.Help, Default: cfg.Default}
	err := d.ask(ctx, prompt, &out)
	return out, err
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{Message: d.message(cfg.Prompt), Options: cfg.Options, Help: cfg.Help}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	var out string
	if err := d.ask(ctx, prompt, &out); err != nil {
		return -1, err
	}
	return indexOf(cfg.Options, out), nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{Message: d.message(cfg.Prompt), Options: cfg.Options, Help: cfg.Help}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if chosen := pick(cfg.Options, cfg.Defaults); len(chosen) > 0 {
		prompt.Default = chosen
	}
	var out []string
	if err := d.ask(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return indicesOf(cfg.Options, out), nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var out string
	prompt := &survey.Multiline{Message: d.message(cfg.Prompt), Help: cfg.Help, Default: cfg.Default}
	err := d.ask(ctx, prompt, &out)
	return out, err
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, d.theme.InfoPrefix+msg)
	return err
}

// validateWith adapts a string check to survey's answer validator.
func validateWith(fn func(string) error) []survey.AskOpt {
	if fn == nil {
		return nil
	}
	return []survey.AskOpt{survey.WithValidator(answerValidator(fn))}
}

func answerValidator(fn func(string) error) survey.Validator {
	return func(ans interface{}) error {
		switch v := ans.(type) {
		case string:
			return fn(v)
		case nil:
			return fn("")
		default:
			return fn(fmt.Sprint(v))
		}
	}
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func indicesOf(options, values []string) []int {
	var out []int
	for i, option := range options {
		if indexOf(values, option) >= 0 {
			out = append(out, i)
		}
	}
	return out
}

func pick(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
