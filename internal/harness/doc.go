// Package harness replays scripted drop scenarios against a real engine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: cancel_pair
//	description: "A blue drop cancels the red token already in the area"
//	variant: balance          # or two-area; default balance
//	stack_size: 3             # default 3
//	session: test-session-1   # default test-session-default
//	record:                   # optional record persisted by an earlier session
//	  hasPersistedData: "true"
//	  netCount: "-1"
//	drops:
//	  - from: red-stack       # drag the top token of a container
//	    to: balance-area
//	    expect: moved
//	  - token: 6              # or name a token by ID
//	    to: balance-area
//	    expect: cancelled
//	assertions:
//	  - type: counts
//	    net: 0
//	    class: zero
//
// Every file is checked against an embedded CUE schema before it is decoded,
// then decoded strictly so a misspelled key is an error.
//
// # Expectations
//
// A drop's expect is one of moved, cancelled, rejected, or none. none means
// no intent was produced at all, which happens when dragging from an empty
// or absent container.
//
// # Assertion Types
//
//   - counts: red, blue, net and class of the final board (each optional)
//   - sizes: number of tokens per container tag
//   - record: subset match against the final saved record
//   - outcome_count: how many drops ended with the given outcome
//   - reload: the persisted record reloads to the same counts and sizes
//   - conserved: per-color totals equal those of the initial board
//
// # Deterministic Testing
//
// Each run uses a fresh in-memory store, a fixed session token and a clock
// starting at 0, so two runs of one scenario render byte-identical traces.
// Traces are compared against golden files with goldie.
package harness
