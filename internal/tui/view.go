package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/view"
)

const tokenGlyph = "●"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("balance"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  session %s", m.state.Variant(), m.eng.Session())))
	b.WriteString("\n\n")

	boxes := make([]string, 0, len(m.state.Containers()))
	for i, c := range m.state.Containers() {
		boxes = append(boxes, m.renderContainer(c, i == m.cursor))
	}
	if m.width > 0 && lipgloss.Width(lipgloss.JoinHorizontal(lipgloss.Top, boxes...)) > m.width {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, boxes...))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	b.WriteString("\n")

	b.WriteString(renderCounts(view.CountsOf(m.state)))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(renderHelp(m.keys.ShortHelp())))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderContainer(c *board.Container, focused bool) string {
	style := boxStyle
	if focused {
		style = focusBoxStyle
	}

	var lines []string
	lines = append(lines, labelStyle.Render(string(c.ID)))

	members := c.Members()
	if len(members) == 0 {
		lines = append(lines, mutedStyle.Render("·"))
	}
	// Top of the container first.
	for i := len(members) - 1; i >= 0; i-- {
		t := members[i]
		glyph := tokenStyle(t.Color).Render(tokenGlyph)
		label := mutedStyle.Render(fmt.Sprintf("#%d", t.ID))
		if m.held != nil && m.held.token.ID == t.ID {
			label = titleStyle.Render("lifted")
		}
		lines = append(lines, glyph+" "+label)
	}

	return style.Render(strings.Join(lines, "\n"))
}

func renderCounts(c view.Counts) string {
	net := netStyle(c.Class).Render(fmt.Sprintf("net %+d", c.Net))
	return fmt.Sprintf("%s  %s  %s",
		redTokenStyle.Render(fmt.Sprintf("red %d", c.Red)),
		blueTokenStyle.Render(fmt.Sprintf("blue %d", c.Blue)),
		net,
	)
}

func (m Model) renderStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.status != "":
		return mutedStyle.Render(m.status)
	case m.last != nil:
		return mutedStyle.Render(fmt.Sprintf("drop %d: %s -> %s %s",
			m.last.Seq, m.last.Token, m.last.Intent.Target, m.last.Outcome))
	default:
		return ""
	}
}
