package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/quokkaq/quokkaq/internal/ui/model"
)

// Runner manages the TUI lifecycle
type Runner struct {
	model   model.AppModel
	logger  *log.Logger
	options []tea.ProgramOption
}

// NewRunner creates a runner for m. Extra options are appended to the
// alternate screen and mouse defaults.
func NewRunner(m model.AppModel, logger *log.Logger, opts ...tea.ProgramOption) *Runner {
	return &Runner{
		model:  m,
		logger: logger,
		options: append([]tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		}, opts...),
	}
}

// Run starts the TUI and blocks until it exits or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("TUI starting")
	program := tea.NewProgram(r.model, append(r.options, tea.WithContext(ctx))...)

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		r.logger.Info("TUI stopped", "reason", ctx.Err())
		return nil
	}
	if err != nil {
		r.logger.Error("TUI error", "error", err)
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	r.logger.Info("TUI exited", "route", r.model.Session().Route)
	return nil
}

// RunPlain writes a static description for terminals that cannot host the
// interactive program.
func (r *Runner) RunPlain(w io.Writer) error {
	r.logger.Info("no terminal, writing plain output")
	_, err := io.WriteString(w, r.model.Describe())
	return err
}
