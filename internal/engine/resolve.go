package engine

import (
	"github.com/roach88/balance/internal/board"
)

// Outcome reports what a drop did to the board.
//
// At most one of Moved and Cancelled is true. Both false means the drop was
// rejected and nothing changed.
type Outcome struct {
	Moved     bool `json:"moved"`
	Cancelled bool `json:"cancelled"`
}

// Rejected reports whether the drop left the board untouched.
func (o Outcome) Rejected() bool {
	return !o.Moved && !o.Cancelled
}

func (o Outcome) String() string {
	switch {
	case o.Cancelled:
		return "cancelled"
	case o.Moved:
		return "moved"
	default:
		return "rejected"
	}
}

// DropIntent is a request to drop one token onto one container.
type DropIntent struct {
	Token  board.TokenID     `json:"token"`
	Target board.ContainerID `json:"target"`
}

// Resolve applies a drop of token onto target and returns the outcome.
//
// Resolve is total. An unknown token, a target the board does not have, or a
// color the target does not accept all reject the drop without mutation.
//
// Dropping onto a balance area holding the opposite color cancels one pair:
// the oldest opposite token in the area goes back to its stack, and the
// dropped token goes to the end of its own stack.
func Resolve(s *board.State, token board.TokenID, target board.ContainerID) Outcome {
	dst, ok := s.Container(target)
	if !ok {
		return Outcome{}
	}
	_, tok, ok := s.Locate(token)
	if !ok {
		return Outcome{}
	}

	switch dst.Kind {
	case board.BalanceArea:
		held, occupied := dst.Color()
		if !occupied || held == tok.Color {
			s.Move(tok.ID, target)
			return Outcome{Moved: true}
		}
		if _, ok := s.ReturnOldest(target, held); !ok {
			return Outcome{}
		}
		s.Move(tok.ID, board.StackFor(tok.Color))
		return Outcome{Cancelled: true}

	default:
		if !dst.AcceptsColor(tok.Color) {
			return Outcome{}
		}
		s.Move(tok.ID, target)
		return Outcome{Moved: true}
	}
}

// DragTop builds the intent for dragging the top token of source onto target.
//
// Only the source is checked here; Resolve rejects a bad target.
func DragTop(s *board.State, source, target board.ContainerID) (DropIntent, error) {
	c, ok := s.Container(source)
	if !ok {
		return DropIntent{}, &ContainerError{ID: source, Err: ErrUnknownContainer}
	}
	top, ok := c.Top()
	if !ok {
		return DropIntent{}, &ContainerError{ID: source, Err: ErrEmptyContainer}
	}
	return DropIntent{Token: top.ID, Target: target}, nil
}
