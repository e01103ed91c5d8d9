package board

import (
	"fmt"
	"strings"
)

// Color is the immutable color of a token.
type Color int

const (
	Red Color = iota + 1
	Blue
)

// Colors lists both colors in display order.
var Colors = []Color{Red, Blue}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == Red {
		return Blue
	}
	return Red
}

// Valid reports whether c is Red or Blue.
func (c Color) Valid() bool {
	return c == Red || c == Blue
}

// ParseColor parses "red" or "blue" (case-insensitive).
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "blue":
		return Blue, nil
	default:
		return 0, fmt.Errorf("unknown color %q", s)
	}
}

// TokenID identifies a token within one State.
type TokenID uint64

// Token is a single colored unit.
type Token struct {
	ID    TokenID
	Color Color
}

func (t Token) String() string {
	return fmt.Sprintf("%s#%d", t.Color, t.ID)
}

// Kind is the container variant.
type Kind int

const (
	// Stack is a per-color, unlimited source of tokens.
	Stack Kind = iota + 1
	// SingleColorArea accepts tokens of one fixed color only.
	SingleColorArea
	// BalanceArea accepts either color; opposite colors cancel.
	BalanceArea
)

func (k Kind) String() string {
	switch k {
	case Stack:
		return "stack"
	case SingleColorArea:
		return "single-color-area"
	case BalanceArea:
		return "balance-area"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ContainerID is the stable tag a gesture layer uses to name a drop target.
type ContainerID string

const (
	RedStack    ContainerID = "red-stack"
	BlueStack   ContainerID = "blue-stack"
	RedArea     ContainerID = "red-area"
	BlueArea    ContainerID = "blue-area"
	BalanceZone ContainerID = "balance-area"
)

// AllContainerIDs lists every recognized tag across both variants.
var AllContainerIDs = []ContainerID{RedStack, BlueStack, RedArea, BlueArea, BalanceZone}

// StackFor returns the stack that holds tokens of color c.
func StackFor(c Color) ContainerID {
	if c == Blue {
		return BlueStack
	}
	return RedStack
}

// AreaFor returns the single-color area for color c (two-area variant).
func AreaFor(c Color) ContainerID {
	if c == Blue {
		return BlueArea
	}
	return RedArea
}

// Variant selects which containers make up a board.
type Variant string

const (
	// VariantBalance has one cancelling balance area.
	VariantBalance Variant = "balance"
	// VariantTwoArea has one single-color area per color.
	VariantTwoArea Variant = "two-area"
)

// ValidVariants defines the allowed variant names.
var ValidVariants = []Variant{VariantBalance, VariantTwoArea}

// ParseVariant parses a variant name. The empty string selects VariantBalance.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantBalance:
		return VariantBalance, nil
	case VariantTwoArea:
		return VariantTwoArea, nil
	default:
		return "", fmt.Errorf("unknown variant %q: must be one of %v", s, ValidVariants)
	}
}

// DefaultStackSize is the number of tokens per stack on a fresh board.
const DefaultStackSize = 3
