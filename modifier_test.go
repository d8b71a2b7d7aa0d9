package tokengate

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testModifierKey(t *testing.T) []byte {
	t.Helper()
	key, err := newModifierKey()
	if err != nil {
		t.Fatalf("newModifierKey failed: %v", err)
	}
	return key
}

func TestEncodeVerifyModifierRoundTrip(t *testing.T) {
	key := testModifierKey(t)

	token, err := encodeModifier(key, "primary-1")
	if err != nil {
		t.Fatalf("encodeModifier failed: %v", err)
	}

	if !verifyModifier(key, token, "primary-1") {
		t.Fatal("modifier must verify against its own primary token")
	}
	if verifyModifier(key, token, "primary-2") {
		t.Fatal("modifier must not verify against another primary token")
	}
	if verifyModifier(testModifierKey(t), token, "primary-1") {
		t.Fatal("modifier must not verify under a different key")
	}
}

func TestVerifyModifierRejectsMalformed(t *testing.T) {
	key := testModifierKey(t)

	short := base64.RawURLEncoding.EncodeToString(make([]byte, 10))
	for _, token := range []string{"", "!!!not-base64!!!", short} {
		if verifyModifier(key, token, "primary") {
			t.Fatalf("expected malformed modifier %q to be invalid", token)
		}
	}
}

func TestModifierTokensAreUniquePerIssue(t *testing.T) {
	key := testModifierKey(t)

	first, err := encodeModifier(key, "primary")
	if err != nil {
		t.Fatalf("encodeModifier failed: %v", err)
	}
	second, err := encodeModifier(key, "primary")
	if err != nil {
		t.Fatalf("encodeModifier failed: %v", err)
	}
	if first == second {
		t.Fatal("expected a fresh nonce per issued modifier")
	}
	if !verifyModifier(key, first, "primary") || !verifyModifier(key, second, "primary") {
		t.Fatal("both issued modifiers must verify")
	}
}

func TestHeaderModifierLifecycle(t *testing.T) {
	m := NewHeaderModifier("X-Modifier-Token", testModifierKey(t))

	rec := httptest.NewRecorder()
	token, err := m.Issue(rec, "primary")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if got := rec.Header().Get("X-Modifier-Token"); got != token {
		t.Fatalf("response header %q does not match issued token %q", got, token)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if m.Validate(req, "primary") {
		t.Fatal("missing header must be invalid")
	}

	req.Header.Set("X-Modifier-Token", token)
	if !m.Validate(req, "primary") {
		t.Fatal("echoed modifier must validate")
	}

	m.Remove(rec, req)
	if m.Validate(req, "primary") {
		t.Fatal("expected request header stripped after Remove")
	}
}

func TestCookieModifierLifecycle(t *testing.T) {
	m := NewCookieModifier(CookieConfig{Name: "modifier_token"}, time.Hour, testModifierKey(t))

	rec := httptest.NewRecorder()
	token, err := m.Issue(rec, "primary")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != token {
		t.Fatalf("expected one modifier cookie, got %+v", cookies)
	}
	if cookies[0].HttpOnly {
		t.Fatal("modifier cookie must stay script-readable")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	if !m.Validate(req, "primary") {
		t.Fatal("presented modifier cookie must validate")
	}
	if m.Validate(req, "other-primary") {
		t.Fatal("modifier cookie must be bound to its primary token")
	}

	clearRec := httptest.NewRecorder()
	m.Remove(clearRec, req)
	if m.Validate(req, "primary") {
		t.Fatal("expected request cookie stripped after Remove")
	}

	cleared := clearRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected expiring Set-Cookie, got %+v", cleared)
	}
}
