package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balance/internal/board"
)

func TestFixedSessionGenerator_SameTokenEveryTime(t *testing.T) {
	gen := NewFixedSessionGenerator("test-session-0001")
	assert.Equal(t, "test-session-0001", gen.Generate())
	assert.Equal(t, "test-session-0001", gen.Generate())
}

func TestFixedSessionGenerator_EmptyUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultSession, NewFixedSessionGenerator("").Generate())
}

func TestFixedSessionGenerator_Concurrent(t *testing.T) {
	gen := NewFixedSessionGenerator("shared")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "shared", gen.Generate())
		}()
	}
	wg.Wait()
}

func TestOpenMemoryStore(t *testing.T) {
	st := OpenMemoryStore(t)
	require.NoError(t, st.Ping(context.Background()))
}

func TestBoard_AppliesMoves(t *testing.T) {
	s := Board(t, board.VariantBalance, 3,
		Move{Token: 1, To: board.BalanceZone},
		Move{Token: 2, To: board.BalanceZone},
	)
	assert.Equal(t, 2, s.Size(board.BalanceZone))
	assert.Equal(t, 1, s.Size(board.RedStack))
}

func TestDiscardLogger(t *testing.T) {
	DiscardLogger().Info("dropped")
}
