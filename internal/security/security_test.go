package security

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestHashPassphraseRequiresMinimumLength(t *testing.T) {
	t.Parallel()

	if _, err := HashPassphrase("short"); !errors.Is(err, ErrPassphraseTooShort) {
		t.Fatalf("expected ErrPassphraseTooShort, got %v", err)
	}
}

func TestHashPassphraseAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassphrase("bigstep-weekly")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassphrase("bigstep-weekly", hash) {
		t.Fatalf("expected verification to succeed")
	}
	if VerifyPassphrase("bigstep-monthly", hash) {
		t.Fatalf("expected wrong passphrase to fail")
	}
	for _, bad := range []string{"", "v1$1$a$b", "v2$210000$AAAA$AAAA", hash + "$x"} {
		if VerifyPassphrase("bigstep-weekly", bad) {
			t.Fatalf("malformed hash accepted: %q", bad)
		}
	}
}

func TestTokenStoreExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	s := NewTokenStore[string]()
	s.now = func() time.Time { return now }

	token, expiresAt := s.Put("a.xlsx", time.Minute)
	if token == "" || !expiresAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected token %q %v", token, expiresAt)
	}
	if v, ok := s.Get(token); !ok || v != "a.xlsx" {
		t.Fatalf("get: %q %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := s.Get(token); ok {
		t.Fatalf("expired token still valid")
	}
	if s.Len() != 0 {
		t.Fatalf("expired token not purged")
	}
}

func TestTokenStoreTake(t *testing.T) {
	t.Parallel()

	s := NewTokenStore[int]()
	token, _ := s.Put(7, time.Hour)
	if v, ok := s.Take(token); !ok || v != 7 {
		t.Fatalf("take: %d %v", v, ok)
	}
	if _, ok := s.Take(token); ok {
		t.Fatalf("token must be single use")
	}
}

func TestTokenStoreTakeConcurrent(t *testing.T) {
	t.Parallel()

	s := NewTokenStore[int]()
	token, _ := s.Put(1, time.Hour)

	var wg sync.WaitGroup
	var served atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.Take(token); ok {
				served.Add(1)
			}
		}()
	}
	wg.Wait()
	if served.Load() != 1 {
		t.Fatalf("single-use token served %d times", served.Load())
	}
}

func TestTokenStoreOnExpire(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	s := NewTokenStore[string]()
	s.now = func() time.Time { return now }
	var expired []string
	s.OnExpire(func(v string) { expired = append(expired, v) })

	s.Put("old.xlsx", time.Minute)
	taken, _ := s.Put("taken.xlsx", time.Minute)
	if _, ok := s.Take(taken); !ok {
		t.Fatalf("take failed")
	}

	now = now.Add(2 * time.Minute)
	s.Put("new.xlsx", time.Minute)
	if len(expired) != 1 || expired[0] != "old.xlsx" {
		t.Fatalf("expired = %v", expired)
	}
}

func TestGate(t *testing.T) {
	t.Parallel()

	open := NewGate("", time.Hour)
	if open.Enabled() || !open.Validate("") {
		t.Fatalf("gate without hash must be open")
	}

	hash, err := HashPassphrase("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	g := NewGate(hash, time.Hour)
	if _, _, err := g.Login("wrong-horse"); !errors.Is(err, ErrInvalidPassphrase) {
		t.Fatalf("expected ErrInvalidPassphrase, got %v", err)
	}
	token, _, err := g.Login("correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !g.Validate(token) || g.Validate("") || g.Validate("other") {
		t.Fatalf("unexpected validation result")
	}
	g.Logout(token)
	if g.Validate(token) {
		t.Fatalf("logged out token still valid")
	}
}
