package display

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// UI runs the BigBite terminal program.
type UI struct {
	program *tea.Program
}

// NewUI creates the display. Call Run to start.
func NewUI(ctx context.Context, deps Deps) *UI {
	m := newModel(ctx, deps)
	return &UI{
		program: tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)),
	}
}

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	_, err := u.program.Run()
	return err
}

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	u.program.Quit()
}
