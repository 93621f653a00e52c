package security

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type tokenItem[T any] struct {
	value     T
	expiresAt time.Time
}

// TokenStore 만료 시간이 있는 임의 토큰 → 값 저장소
type TokenStore[T any] struct {
	mu       sync.Mutex
	items    map[string]tokenItem[T]
	now      func() time.Time
	onExpire func(T)
}

// NewTokenStore 빈 저장소
func NewTokenStore[T any]() *TokenStore[T] {
	return &TokenStore[T]{
		items: make(map[string]tokenItem[T]),
		now:   time.Now,
	}
}

// Put 새 토큰 발급
func (s *TokenStore[T]) Put(value T, ttl time.Duration) (token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = NewRandomToken(24)
	expiresAt = now.Add(ttl)
	s.items[token] = tokenItem[T]{value: value, expiresAt: expiresAt}
	return token, expiresAt
}

// OnExpire 만료되어 버려지는 값마다 호출된다 (잠금을 잡은 채로 호출)
func (s *TokenStore[T]) OnExpire(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = fn
}

// Get 만료되지 않은 토큰의 값
func (s *TokenStore[T]) Get(token string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(s.now())
	v, ok := s.items[token]
	if !ok {
		var zero T
		return zero, false
	}
	return v.value, true
}

// Take 값을 꺼내고 토큰을 폐기 (일회용). 동시에 불려도 한 번만 성공한다.
func (s *TokenStore[T]) Take(token string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(s.now())
	v, ok := s.items[token]
	if !ok {
		var zero T
		return zero, false
	}
	delete(s.items, token)
	return v.value, true
}

// Delete 토큰 폐기
func (s *TokenStore[T]) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

// Len 유효한 토큰 수
func (s *TokenStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked(s.now())
	return len(s.items)
}

func (s *TokenStore[T]) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
			if s.onExpire != nil {
				s.onExpire(v.value)
			}
		}
	}
}

// NewRandomToken URL 에 쓸 수 있는 n 바이트 난수 토큰
func NewRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
