package security

import (
	"errors"
	"time"
)

// ErrInvalidPassphrase 접속 암호 불일치
var ErrInvalidPassphrase = errors.New("invalid passphrase")

// Session 로그인 세션
type Session struct {
	IssuedAt time.Time `json:"issuedAt"`
}

// Gate 공유 접속 암호 하나로 세션을 발급한다.
// 해시가 설정되지 않으면 인증을 요구하지 않는다.
type Gate struct {
	hash     string
	ttl      time.Duration
	sessions *TokenStore[Session]
}

// NewGate hash 는 HashPassphrase 결과
func NewGate(hash string, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Gate{hash: hash, ttl: ttl, sessions: NewTokenStore[Session]()}
}

// Enabled 인증 필요 여부
func (g *Gate) Enabled() bool {
	return g.hash != ""
}

// Login 암호 확인 후 세션 토큰 발급
func (g *Gate) Login(passphrase string) (string, time.Time, error) {
	if g.Enabled() && !VerifyPassphrase(passphrase, g.hash) {
		return "", time.Time{}, ErrInvalidPassphrase
	}
	token, expiresAt := g.sessions.Put(Session{IssuedAt: g.sessions.now()}, g.ttl)
	return token, expiresAt, nil
}

// Validate 유효한 세션 토큰인지. 인증이 꺼져 있으면 항상 true.
func (g *Gate) Validate(token string) bool {
	if !g.Enabled() {
		return true
	}
	if token == "" {
		return false
	}
	_, ok := g.sessions.Get(token)
	return ok
}

// Logout 세션 폐기
func (g *Gate) Logout(token string) {
	g.sessions.Delete(token)
}
