package midtrans

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestVerifySignature(t *testing.T) {
	key := "SB-Mid-server-test"
	sig := Signature(key, "order-1", "200", "150000.00")
	if len(sig) != 128 {
		t.Fatalf("signature length: want=128 got=%d", len(sig))
	}
	if !VerifySignature(key, "order-1", "200", "150000.00", sig) {
		t.Fatalf("VerifySignature: want=true for matching signature")
	}
	if VerifySignature(key, "order-1", "200", "150001.00", sig) {
		t.Fatalf("VerifySignature: want=false for tampered amount")
	}
	if VerifySignature("", "order-1", "200", "150000.00", sig) {
		t.Fatalf("VerifySignature: want=false without server key")
	}
	if VerifySignature(key, "order-1", "200", "150000.00", "") {
		t.Fatalf("VerifySignature: want=false for empty signature")
	}
}

func TestNewGatewayRequiresKey(t *testing.T) {
	if _, err := NewGateway(Config{}); err == nil {
		t.Fatalf("NewGateway: want error without server key")
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	name := strings.Repeat("é", 49) + "日本"
	got := truncate(name, 50)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate: want valid UTF-8 got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 50 {
		t.Fatalf("truncate runes: want=50 got=%d", n)
	}
	if !strings.HasSuffix(got, "日") {
		t.Fatalf("truncate: want trailing 日 got %q", got)
	}
	if got := truncate("Go Basics", 50); got != "Go Basics" {
		t.Fatalf("truncate short: want=%q got=%q", "Go Basics", got)
	}
}
