package tokengate

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ModifierEngine implements the secondary token paired with the primary
// token. Its lifecycle mirrors the primary's: issued alongside
// Authenticate, destroyed alongside Deauthenticate. A failed Validate
// on an otherwise valid primary token resolves the request to
// StateInvalid, exactly like a bad primary token.
type ModifierEngine interface {
	Issue(w http.ResponseWriter, primaryToken string) (string, error)
	Validate(r *http.Request, primaryToken string) bool
	Remove(w http.ResponseWriter, r *http.Request)
}

const (
	modifierNonceSize = 16
	modifierKeySize   = 32
	modifierRawSize   = modifierNonceSize + sha256.Size
)

// newModifierKey generates a per-engine MAC key.
func newModifierKey() ([]byte, error) {
	key := make([]byte, modifierKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate modifier key: %w", err)
	}
	return key, nil
}

// encodeModifier mints a modifier token bound to the primary token:
// a random nonce followed by HMAC-SHA256(key, nonce || primary),
// base64url without padding. Stateless: validation recomputes the MAC.
func encodeModifier(key []byte, primaryToken string) (string, error) {
	nonce, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	var raw [modifierRawSize]byte
	copy(raw[:modifierNonceSize], nonce[:])
	copy(raw[modifierNonceSize:], modifierMAC(key, nonce[:], primaryToken))

	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// verifyModifier checks a presented modifier token against the primary
// token it claims to accompany. Malformed input is simply invalid.
func verifyModifier(key []byte, token, primaryToken string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != modifierRawSize {
		return false
	}
	expect := modifierMAC(key, raw[:modifierNonceSize], primaryToken)
	return hmac.Equal(raw[modifierNonceSize:], expect)
}

func modifierMAC(key, nonce []byte, primaryToken string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(nonce)
	mac.Write([]byte(primaryToken))
	return mac.Sum(nil)
}
