package session

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestIssueAndLookup(t *testing.T) {
	svc := New(time.Hour)

	token, identity, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !strings.HasPrefix(identity, "guest:") {
		t.Fatalf("expected guest identity, got %q", identity)
	}

	resolved, err := svc.Lookup(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if resolved != identity {
		t.Fatalf("lookup resolved %q, want %q", resolved, identity)
	}
}

func TestLookupUnknownToken(t *testing.T) {
	svc := New(time.Hour)
	if _, err := svc.Lookup(context.Background(), "nope"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := New(-time.Second)
	token, _, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Lookup(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected expired token to be invalid, got %v", err)
	}
}

func TestDistinctSessionsGetDistinctIdentities(t *testing.T) {
	svc := New(time.Hour)
	_, first, _ := svc.Issue(context.Background())
	_, second, _ := svc.Issue(context.Background())
	if first == second {
		t.Fatalf("identities must be unique, both were %q", first)
	}
}
