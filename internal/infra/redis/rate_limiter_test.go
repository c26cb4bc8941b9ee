//go:build !integration

package redis

import (
	"context"
	"testing"
	"time"
)

func TestAttachKey(t *testing.T) {
	if got := AttachKey("alice"); got != "registry:attach:alice" {
		t.Errorf("unexpected key %q", got)
	}
	if AttachKey("alice") == AttachKey("bob") {
		t.Error("expected distinct keys per identity")
	}
}

func TestRateLimiter_NonPositiveLimit(t *testing.T) {
	// no client: a zero limit must be decided without a round trip
	rl := NewRateLimiter(nil)
	ok, err := rl.Allow(context.Background(), AttachKey("alice"), 0, time.Hour)
	if err != nil || ok {
		t.Errorf("expected a refusal without error, got ok=%v err=%v", ok, err)
	}
}
