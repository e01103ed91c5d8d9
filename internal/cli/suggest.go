package cli

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/roach88/balance/internal/board"
)

// maxSuggestDistance is the largest edit distance still offered as a
// suggestion.
const maxSuggestDistance = 4

// parseContainer resolves a tag against the containers of s.
// Unknown tags fail with a command error that suggests the closest tag.
func parseContainer(s *board.State, tag string) (board.ContainerID, error) {
	id := normalizeTag(tag)
	if s.Has(id) {
		return id, nil
	}
	return "", unknownContainer(s, id)
}

func normalizeTag(tag string) board.ContainerID {
	return board.ContainerID(strings.ToLower(strings.TrimSpace(tag)))
}

// unknownContainer builds the command error for a tag s does not have.
func unknownContainer(s *board.State, id board.ContainerID) *ExitError {
	valid := make([]string, 0, len(s.Containers()))
	for _, c := range s.Containers() {
		valid = append(valid, string(c.ID))
	}

	msg := fmt.Sprintf("unknown container %q in the %s variant", id, s.Variant())
	if best, ok := suggest(string(id), valid); ok {
		msg += fmt.Sprintf(" (did you mean %q?)", best)
	}
	return &ExitError{
		Code:    ExitCommandError,
		Message: msg,
		Details: map[string]any{"valid": valid},
	}
}

// suggest returns the candidate closest to input by edit distance.
func suggest(input string, candidates []string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(input, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}
