package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
)

func TestAuthService_RoundTrip(t *testing.T) {
	as := NewAuthService(testutil.Logger(t), "secret", "https://id.example.com")
	tok, err := as.IssueToken(Identity{ExternalID: "user_123", Email: "Ada@Example.com", Name: "Ada"}, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	id, err := as.VerifyToken(tok)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if id.ExternalID != "user_123" || id.Email != "ada@example.com" || id.Name != "Ada" {
		t.Fatalf("identity: got=%+v", id)
	}
}

func TestAuthService_Rejects(t *testing.T) {
	log := testutil.Logger(t)
	as := NewAuthService(log, "secret", "https://id.example.com")

	expired, _ := as.IssueToken(Identity{ExternalID: "u", Email: "u@example.com"}, -time.Minute)
	otherIssuer, _ := NewAuthService(log, "secret", "https://evil.example.com").IssueToken(Identity{ExternalID: "u", Email: "u@example.com"}, time.Minute)
	otherKey, _ := NewAuthService(log, "other", "https://id.example.com").IssueToken(Identity{ExternalID: "u", Email: "u@example.com"}, time.Minute)
	noEmail, _ := as.IssueToken(Identity{ExternalID: "u"}, time.Minute)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u", "email": "u@example.com"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"expired":      expired,
		"other_issuer": otherIssuer,
		"other_key":    otherKey,
		"no_email":     noEmail,
		"alg_none":     none,
	}
	for name, tok := range cases {
		if _, err := as.VerifyToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: want ErrInvalidToken got %v", name, err)
		}
	}
}

func TestAdminPolicy(t *testing.T) {
	p := NewAdminPolicy([]string{" Admin@Example.com ", ""})
	if !p.IsAdmin("admin@example.com") || !p.IsAdmin("ADMIN@example.COM") {
		t.Fatalf("IsAdmin: want=true for configured email")
	}
	if p.IsAdmin("learner@example.com") || p.IsAdmin("") {
		t.Fatalf("IsAdmin: want=false for others")
	}
	if NewAdminPolicy(nil).IsAdmin("admin@example.com") {
		t.Fatalf("IsAdmin: want=false with empty policy")
	}
}
