package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/cosmic/internal/workspace"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a harmonizer program over ws using the alternate
// screen buffer. hook may be nil.
func NewProgram(ws *workspace.Workspace, maxWeight float64, hook WeightsHook, opts ...tea.ProgramOption) *Program {
	model := NewAppModel(ws, maxWeight)
	model.OnWeights = hook

	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(model, allOpts...)
}

// Run runs p, blocking until it exits.
func Run(p *Program) error {
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
