package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// canonicalize produces a stable byte representation of v: JSON with object
// keys sorted recursively, no insignificant whitespace. Two semantically
// equal payloads always canonicalize to the same bytes regardless of field
// order, which is what makes the derived cache keys deterministic.
func canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	// Round-trip through any so maps replace structs; encoding/json writes
	// map keys in sorted order.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("normalizing payload: %w", err)
	}
	return json.Marshal(generic)
}

// digest returns the truncated hex digest used as the cache key suffix.
// Sixteen hex chars (64 bits) keep keys compact; a collision can only serve
// a stale-but-plausible alternate result, never an auth artifact, so the
// risk is acceptable for the expected cache population.
func digest(kind Kind, canonical []byte) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
