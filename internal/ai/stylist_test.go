package ai

import (
	"context"
	"encoding/base64"
	"testing"
)

func TestStylistDisabledWithoutKey(t *testing.T) {
	s, err := NewStylist(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Enabled() {
		t.Fatalf("expected disabled stylist")
	}
	// the user gets an apology, never an error
	if got := s.Advice(context.Background(), "what goes with linen trousers?"); got != MsgDisabled {
		t.Fatalf("unexpected reply: %q", got)
	}
	if _, err := s.TryOn(context.Background(), "aGVsbG8=", "https://example.com/img.jpg", "Apparel"); err != ErrUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestDecodePhoto(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff}
	b64 := base64.StdEncoding.EncodeToString(raw)

	for _, in := range []string{b64, "data:image/jpeg;base64," + b64} {
		got, err := decodePhoto(in)
		if err != nil {
			t.Fatalf("decode %q: %v", in, err)
		}
		if string(got) != string(raw) {
			t.Fatalf("decode %q: got %v", in, got)
		}
	}

	if _, err := decodePhoto("not base64!!!"); err == nil {
		t.Fatalf("expected decode error")
	}
}
