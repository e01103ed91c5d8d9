package testutil

// FixedSessionGenerator generates the same session token every time.
//
// Two runs of one scenario with the same generator produce byte-identical
// drop logs, which is what golden traces compare.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	token string
}

// DefaultSession is used when no token is given.
const DefaultSession = "test-session-default"

// NewFixedSessionGenerator creates a new fixed session generator.
//
// The token is typically set in the scenario YAML:
//
//	session: "test-session-0001"
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = DefaultSession
	}
	return &FixedSessionGenerator{token: token}
}

// Generate returns the fixed session token.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}
