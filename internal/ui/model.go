// ABOUTME: Bubbletea model for the live synth TUI
// ABOUTME: Defines voice state, key handling and status rendering
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	delayStepSeconds = 0.05
	gainStep         = 0.05
	maxDelaySeconds  = 1.0
)

// Action is a control request emitted by the TUI for the engine loop to
// apply. The model never touches the engine directly.
type Action struct {
	Kind  ActionKind
	Name  string  // parameter name for ActionSetParam
	Value float64 // parameter value for ActionSetParam
	Wave  string  // waveform for ActionPlay
}

// ActionKind enumerates TUI control requests.
type ActionKind int

const (
	ActionPlay ActionKind = iota
	ActionFree
	ActionSetParam
)

// Model represents the TUI state for a single controllable voice.
type Model struct {
	// Voice
	playing bool
	handle  string
	wave    string

	// Live parameter shadow, mirrored to the engine on change
	delaySeconds float64
	outputGain   float64
	frequencyHz  float64

	// Stats
	blocks    uint64
	underruns uint64

	// Control
	control *Control

	// Dimensions
	width  int
	height int
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderVoice()
	s += m.renderStats()
	s += m.renderHelp()

	return s
}

// renderHeader renders the playback status line.
func (m Model) renderHeader() string {
	status := "Stopped"
	if m.playing {
		status = fmt.Sprintf("Playing %s @ %.0f Hz", m.wave, m.frequencyHz)
	}

	return fmt.Sprintf(`┌─ Warble ─────────────────────────────────────────────┐
│ Status: %-45s │
├──────────────────────────────────────────────────────┤
`, status)
}

// renderVoice renders the live parameter values.
func (m Model) renderVoice() string {
	delayBar := renderBar(int(m.delaySeconds*1000), int(maxDelaySeconds*1000), 10)
	gainBar := renderBar(int(m.outputGain*100), 100, 10)

	return fmt.Sprintf("│ Delay: [%s] %4.0f ms%-23s │\n"+
		"│ Gain:  [%s] %3.0f%%%-26s │\n",
		delayBar, m.delaySeconds*1000, "",
		gainBar, m.outputGain*100, "")
}

// renderStats renders block production statistics.
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Blocks: %-10d Underruns: %-10d%-12s │
`, m.blocks, m.underruns, "")
}

// renderHelp renders keyboard shortcuts.
func (m Model) renderHelp() string {
	return `│ space:Play/Free  ↑/↓:Delay  ←/→:Gain  w:Wave  q:Quit │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.control.requestQuit()
		return m, tea.Quit
	case " ":
		if m.playing {
			m.control.send(Action{Kind: ActionFree})
			m.playing = false
			m.handle = ""
		} else {
			m.control.send(Action{Kind: ActionPlay, Wave: m.wave})
			m.playing = true
		}
	case "up":
		m.delaySeconds += delayStepSeconds
		if m.delaySeconds > maxDelaySeconds {
			m.delaySeconds = maxDelaySeconds
		}
		m.control.send(Action{Kind: ActionSetParam, Name: "delay_seconds", Value: m.delaySeconds})
	case "down":
		m.delaySeconds -= delayStepSeconds
		if m.delaySeconds < 0 {
			m.delaySeconds = 0
		}
		m.control.send(Action{Kind: ActionSetParam, Name: "delay_seconds", Value: m.delaySeconds})
	case "right":
		m.outputGain += gainStep
		if m.outputGain > 1 {
			m.outputGain = 1
		}
		m.control.send(Action{Kind: ActionSetParam, Name: "output_gain", Value: m.outputGain})
	case "left":
		m.outputGain -= gainStep
		if m.outputGain < 0 {
			m.outputGain = 0
		}
		m.control.send(Action{Kind: ActionSetParam, Name: "output_gain", Value: m.outputGain})
	case "w":
		m.wave = nextWave(m.wave)
		if m.playing {
			// Waveform is fixed per voice: restart with the new one.
			m.control.send(Action{Kind: ActionFree})
			m.control.send(Action{Kind: ActionPlay, Wave: m.wave})
		}
	}

	return m, nil
}

// applyStatus updates the model from engine-side status.
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Handle != "" {
		m.handle = msg.Handle
	}
	m.blocks = msg.Blocks
	m.underruns = msg.Underruns
}

// StatusMsg carries engine-side counters into the TUI.
type StatusMsg struct {
	Handle    string
	Blocks    uint64
	Underruns uint64
}

var waveOrder = []string{"sine", "square", "saw", "triangle", "blip"}

func nextWave(current string) string {
	for i, w := range waveOrder {
		if w == current {
			return waveOrder[(i+1)%len(waveOrder)]
		}
	}
	return waveOrder[0]
}

func renderBar(value, max, width int) string {
	if max <= 0 {
		max = 1
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}
