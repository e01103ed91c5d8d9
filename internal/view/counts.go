// Package view derives the displayed counts from a board.
//
// Everything here is a pure function of the board; nothing is cached.
package view

import (
	"fmt"

	"github.com/roach88/balance/internal/board"
)

// NetClass is the display class of a net count.
type NetClass string

const (
	Positive NetClass = "positive"
	Negative NetClass = "negative"
	Zero     NetClass = "zero"
)

// Counts is what the rendering layer shows after every drop.
type Counts struct {
	Red   int      `json:"red"`
	Blue  int      `json:"blue"`
	Net   int      `json:"net"`
	Class NetClass `json:"netClass"`
}

func (c Counts) String() string {
	return fmt.Sprintf("red=%d blue=%d net=%+d (%s)", c.Red, c.Blue, c.Net, c.Class)
}

// Classify maps a net count to its display class.
func Classify(net int) NetClass {
	switch {
	case net > 0:
		return Positive
	case net < 0:
		return Negative
	default:
		return Zero
	}
}

// CountsOf computes red, blue and net counts for the board.
//
// Two-area boards count the single-color areas. Balance boards count each
// color inside the balance area; at most one of the two is non-zero.
func CountsOf(s *board.State) Counts {
	var red, blue int
	switch s.Variant() {
	case board.VariantTwoArea:
		red = s.Size(board.RedArea)
		blue = s.Size(board.BlueArea)
	default:
		if area, ok := s.Container(board.BalanceZone); ok {
			red = area.Count(board.Red)
			blue = area.Count(board.Blue)
		}
	}
	net := blue - red
	return Counts{Red: red, Blue: blue, Net: net, Class: Classify(net)}
}

// Stacks returns the number of tokens left in each stack.
func Stacks(s *board.State) map[board.Color]int {
	return map[board.Color]int{
		board.Red:  s.Size(board.RedStack),
		board.Blue: s.Size(board.BlueStack),
	}
}
