// Package contenthash derives record addresses: BLAKE2b-256 over the
// RFC 8785 canonical form of a typed envelope.
package contenthash

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gowebpki/jcs"
	"golang.org/x/crypto/blake2b"
)

// Envelope is what gets hashed. Replaces is only set on superseding
// versions, which keeps a version chain from ever hashing back onto an
// earlier address.
type Envelope struct {
	Type     string          `json:"type"`
	Content  json.RawMessage `json:"content"`
	Replaces string          `json:"replaces,omitempty"`
}

// Canonical marshals v and rewrites it into JCS form.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("contenthash: marshal: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("contenthash: canonicalize: %w", err)
	}
	return out, nil
}

// Seal canonicalizes content and returns the envelope address together with
// the canonical content bytes that should be persisted.
func Seal(recordType string, content any, replaces string) (string, []byte, error) {
	recordType = strings.TrimSpace(recordType)
	if recordType == "" {
		return "", nil, fmt.Errorf("contenthash: missing record type")
	}
	body, err := Canonical(content)
	if err != nil {
		return "", nil, err
	}
	env, err := Canonical(Envelope{
		Type:     recordType,
		Content:  body,
		Replaces: strings.TrimSpace(replaces),
	})
	if err != nil {
		return "", nil, err
	}
	return Sum(env), body, nil
}

func Sum(b []byte) string {
	h := blake2b.Sum256(b)
	return hex.EncodeToString(h[:])
}

// Valid reports whether s has the shape of an address.
func Valid(s string) bool {
	if len(s) != 2*blake2b.Size256 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
