// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program and the action channel pair
package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Control carries TUI actions to the engine loop and quit requests to
// the main goroutine.
type Control struct {
	Actions chan Action
	Quit    chan struct{}

	quitOnce sync.Once
}

// NewControl creates the channel pair shared between TUI and engine loop.
func NewControl() *Control {
	return &Control{
		Actions: make(chan Action, 10),
		Quit:    make(chan struct{}),
	}
}

// send queues an action without ever blocking the TUI event loop.
func (c *Control) send(a Action) {
	if c == nil {
		return
	}
	select {
	case c.Actions <- a:
	default:
	}
}

// requestQuit closes Quit so every listener wakes, no matter how many
// goroutines are waiting on it.
func (c *Control) requestQuit() {
	if c == nil {
		return
	}
	c.quitOnce.Do(func() { close(c.Quit) })
}

// NewModel creates a new TUI model with default voice settings.
func NewModel(ctrl *Control) Model {
	return Model{
		wave:         "sine",
		frequencyHz:  440,
		delaySeconds: 0,
		outputGain:   0.8,
		control:      ctrl,
	}
}

// Run starts the TUI program.
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
