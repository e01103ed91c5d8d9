// Package tui is the interactive board.
//
// The cursor walks the containers. Enter picks up the top token of the
// container under the cursor, a second Enter drops it where the cursor is
// now, and Esc puts it back without producing a drop. Drops are queued on
// the engine; results come back as UpdateMsg.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/engine"
	"github.com/roach88/balance/internal/view"
)

// Engine is what the model needs from *engine.Engine.
type Engine interface {
	Session() string
	Snapshot() *board.State
	Enqueue(engine.DropIntent) error
	Reset(ctx context.Context) (view.Counts, error)
}

// UpdateMsg delivers one processed drop. Feed it from the engine's update
// hook with Program.Send.
type UpdateMsg engine.Update

type errMsg struct{ err error }

type resetMsg struct {
	counts view.Counts
	err    error
}

type held struct {
	source board.ContainerID
	token  board.Token
}

// Model is the bubbletea model of one board.
type Model struct {
	ctx  context.Context
	eng  Engine
	keys keyMap

	state  *board.State
	cursor int

	// held is the token being dragged; nil when nothing is picked up.
	held *held

	// pending counts queued drops whose UpdateMsg has not arrived yet.
	pending int

	last   *engine.Update
	status string
	err    error
	width  int
}

// New creates a model over eng. ctx bounds the engine calls the model makes.
func New(ctx context.Context, eng Engine) Model {
	return Model{
		ctx:   ctx,
		eng:   eng,
		keys:  newKeyMap(),
		state: eng.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case UpdateMsg:
		if m.pending > 0 {
			m.pending--
		}
		upd := engine.Update(msg)
		m.last = &upd
		m.state = m.eng.Snapshot()
		m.status = ""
		return m, nil

	case resetMsg:
		m.held = nil
		m.last = nil
		m.state = m.eng.Snapshot()
		m.err = msg.err
		if msg.err == nil {
			m.status = "board reset: " + msg.counts.String()
		}
		return m, nil

	case errMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Abort):
		if m.held != nil {
			m.status = "put back " + m.held.token.String()
			m.held = nil
		}

	case key.Matches(msg, m.keys.Grab):
		if m.held == nil {
			m.pickUp()
			return m, nil
		}
		return m.drop()

	case key.Matches(msg, m.keys.Reset):
		if m.held != nil || m.pending > 0 {
			m.status = "finish the current drag first"
			return m, nil
		}
		return m, m.resetCmd()
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.state.Containers())
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

// Focused returns the container under the cursor.
func (m Model) Focused() board.ContainerID {
	cs := m.state.Containers()
	if len(cs) == 0 {
		return ""
	}
	return cs[m.cursor].ID
}

// Holding reports the token being dragged, if any.
func (m Model) Holding() (board.Token, bool) {
	if m.held == nil {
		return board.Token{}, false
	}
	return m.held.token, true
}

func (m *Model) pickUp() {
	m.err = nil
	if m.pending > 0 {
		m.status = "waiting for the last drop"
		return
	}
	c, ok := m.state.Container(m.Focused())
	if !ok {
		return
	}
	top, ok := c.Top()
	if !ok {
		m.status = string(c.ID) + " is empty"
		return
	}
	m.held = &held{source: c.ID, token: top}
	m.status = "holding " + top.String()
}

func (m Model) drop() (tea.Model, tea.Cmd) {
	target := m.Focused()
	h := m.held
	m.held = nil

	// Letting go over the source is the same as putting it back.
	if target == h.source {
		m.status = "put back " + h.token.String()
		return m, nil
	}

	in, err := engine.DragTop(m.state, h.source, target)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.pending++
	m.status = ""
	eng := m.eng
	return m, func() tea.Msg {
		if err := eng.Enqueue(in); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m Model) resetCmd() tea.Cmd {
	ctx, eng := m.ctx, m.eng
	return func() tea.Msg {
		counts, err := eng.Reset(ctx)
		return resetMsg{counts: counts, err: err}
	}
}

// Err returns the last error shown in the status line.
func (m Model) Err() error {
	return m.err
}
