// Package record converts a board to and from its flat persisted form.
//
// A Record is the key/value shape the host storage keeps: every value is a
// string, the same way a browser-style local storage would hold it.
//
// Reconstruction is by count. Load synthesizes fresh tokens for each
// container; it never restores individual token identities. Loading is
// total: missing or malformed fields fall back to defaults and are never
// reported to the caller.
package record

import (
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/view"
)

// Record is a flat mapping of field name to string value.
type Record map[string]string

// Persisted field names.
const (
	KeyHasData     = "hasPersistedData"
	KeyRedStack    = "redStackCount"
	KeyBlueStack   = "blueStackCount"
	KeyRedArea     = "redCount"
	KeyBlueArea    = "blueCount"
	KeyRedBalance  = "redBalanceCount"
	KeyBlueBalance = "blueBalanceCount"
	KeyNet         = "netCount"
)

// MaxCount is the largest count a record field may hold. Stacks never exceed
// the configured stack size, which shares this bound; anything larger is
// treated as malformed.
const MaxCount = 99

const (
	sentinelTrue     = "true"
	defaultAreaCount = 0
)

// Keys returns the field names written for variant v, sentinel first.
func Keys(v board.Variant) []string {
	keys := []string{KeyHasData, KeyRedStack, KeyBlueStack}
	if v == board.VariantTwoArea {
		return append(keys, KeyRedArea, KeyBlueArea)
	}
	return append(keys, KeyRedBalance, KeyBlueBalance, KeyNet)
}

// Save snapshots the board into a record. The sentinel is always written.
func Save(s *board.State) Record {
	rec := Record{
		KeyHasData:   sentinelTrue,
		KeyRedStack:  itoa(s.Size(board.RedStack)),
		KeyBlueStack: itoa(s.Size(board.BlueStack)),
	}

	switch s.Variant() {
	case board.VariantTwoArea:
		rec[KeyRedArea] = itoa(s.Size(board.RedArea))
		rec[KeyBlueArea] = itoa(s.Size(board.BlueArea))
	default:
		c := view.CountsOf(s)
		rec[KeyRedBalance] = itoa(c.Red)
		rec[KeyBlueBalance] = itoa(c.Blue)
		rec[KeyNet] = itoa(c.Net)
	}
	return rec
}

// HasData reports whether the record carries the persisted-data sentinel.
func HasData(rec Record) bool {
	return Bool(rec, KeyHasData)
}

// Load rebuilds a board of variant v from a record using the default stack
// size for missing data.
func Load(rec Record, v board.Variant) *board.State {
	return LoadSized(rec, v, board.DefaultStackSize)
}

// LoadSized rebuilds a board of variant v from a record.
//
// A nil record, or one without the sentinel, yields the default board:
// stackSize tokens per stack and empty areas. Otherwise tokens are
// synthesized by count in this order: red stack, red area, blue stack,
// blue area. Unusable stack fields fall back to stackSize, unusable area
// fields to 0.
func LoadSized(rec Record, v board.Variant, stackSize int) *board.State {
	if !HasData(rec) {
		return board.Default(v, stackSize)
	}

	redStack := Int(rec, KeyRedStack, stackSize)
	blueStack := Int(rec, KeyBlueStack, stackSize)

	if v == board.VariantTwoArea {
		s := board.NewState(board.VariantTwoArea)
		s.Populate(board.RedStack, board.Red, redStack)
		s.Populate(board.RedArea, board.Red, Int(rec, KeyRedArea, defaultAreaCount))
		s.Populate(board.BlueStack, board.Blue, blueStack)
		s.Populate(board.BlueArea, board.Blue, Int(rec, KeyBlueArea, defaultAreaCount))
		return s
	}

	red, blue := balanceCounts(rec)

	// A balance area never holds both colors. Cancel any overlap one for
	// one, sending each cancelled token back to its stack.
	if pairs := min(red, blue); pairs > 0 {
		red -= pairs
		blue -= pairs
		redStack += pairs
		blueStack += pairs
	}

	s := board.NewState(board.VariantBalance)
	s.Populate(board.RedStack, board.Red, redStack)
	s.Populate(board.BalanceZone, board.Red, red)
	s.Populate(board.BlueStack, board.Blue, blueStack)
	s.Populate(board.BalanceZone, board.Blue, blue)
	return s
}

// balanceCounts reads the balance area composition. When neither per-color
// field is usable, the area is rebuilt from netCount.
func balanceCounts(rec Record) (red, blue int) {
	red, redOK := lookupInt(rec, KeyRedBalance)
	blue, blueOK := lookupInt(rec, KeyBlueBalance)
	if redOK || blueOK {
		return red, blue
	}

	net, ok := parseSigned(rec[KeyNet])
	switch {
	case !ok, net > MaxCount, net < -MaxCount:
		return 0, 0
	case net > 0:
		return 0, net
	default:
		return -net, 0
	}
}

// Int returns the integer stored under key, or def when the field is
// missing, non-numeric, negative or above MaxCount.
func Int(rec Record, key string, def int) int {
	n, ok := lookupInt(rec, key)
	if !ok {
		return def
	}
	return n
}

// Bool reports whether key holds "true".
func Bool(rec Record, key string) bool {
	if rec == nil {
		return false
	}
	return strings.TrimSpace(rec[key]) == sentinelTrue
}

func lookupInt(rec Record, key string) (int, bool) {
	if rec == nil {
		return 0, false
	}
	raw, ok := rec[key]
	if !ok {
		return 0, false
	}
	n, ok := parseSigned(raw)
	if !ok || n < 0 || n > MaxCount {
		return 0, false
	}
	return n, true
}

func parseSigned(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// Unknown returns the keys of rec that variant v never writes, sorted.
// Load ignores them.
func Unknown(rec Record, v board.Variant) []string {
	known := Keys(v)
	var out []string
	for k := range rec {
		if !slices.Contains(known, k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
