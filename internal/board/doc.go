// Package board holds the token and container model of the balance widget.
//
// A board is a fixed set of containers selected by a Variant:
//
//	balance:  red-stack, blue-stack, balance-area
//	two-area: red-stack, blue-stack, red-area, blue-area
//
// Tokens carry only a color and an ID. The ID lets a rendering layer map a
// token to a visual element; the engine treats tokens of one color as
// interchangeable.
//
// # Invariants
//
//   - Stacks and single-color areas only hold their accepted color.
//   - A balance area holds tokens of one color at a time once a drop has
//     been resolved.
//   - Per-color totals (stack + areas) only change when tokens are created
//     at startup or rehydration.
//
// State is an explicit value owned by the caller. Nothing in this package
// keeps package-level mutable state.
package board
