package record

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// DomainRecord separates record digests from any other hash in the system.
const DomainRecord = "balance/record/v1"

// MarshalCanonical renders a record as canonical JSON:
//   - keys sorted by UTF-16 code units
//   - keys and values NFC normalized
//   - no HTML escaping, no insignificant whitespace
//
// Equal records always produce identical bytes.
func MarshalCanonical(rec Record) ([]byte, error) {
	keys := make([]string, 0, len(rec))
	normalized := make(map[string]string, len(rec))
	for k, v := range rec {
		nk := norm.NFC.String(k)
		if _, dup := normalized[nk]; dup {
			return nil, fmt.Errorf("duplicate key after NFC normalization: %q", nk)
		}
		normalized[nk] = norm.NFC.String(v)
		keys = append(keys, nk)
	}
	sort.Slice(keys, func(i, j int) bool {
		return lessUTF16(keys[i], keys[j])
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalString(normalized[k])
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Digest returns the hex SHA-256 of the canonical record, domain separated.
// Format: SHA256(domain + 0x00 + canonical JSON)
func Digest(rec Record) (string, error) {
	data, err := MarshalCanonical(rec)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainRecord))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ParseJSON decodes a JSON object into a record. Non-string values are
// kept in their JSON text form so Load can still apply its defaults.
func ParseJSON(data []byte) (Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	rec := make(Record, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			rec[k] = s
			continue
		}
		rec[k] = string(bytes.TrimSpace(v))
	}
	return rec, nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}
