package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passphraseHashVersion = "v1"
	iterations            = 210000
	minIterations         = 100000
	keyLength             = 32
	minPassphraseLength   = 8
)

// ErrPassphraseTooShort 접속 암호 최소 길이 미달
var ErrPassphraseTooShort = errors.New("passphrase must be at least 8 characters")

// HashPassphrase 접속 암호 해시 (v1$반복횟수$salt$digest)
func HashPassphrase(passphrase string) (string, error) {
	if len(passphrase) < minPassphraseLength {
		return "", ErrPassphraseTooShort
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(passphrase), salt, iterations, keyLength, sha256.New)
	return fmt.Sprintf("%s$%d$%s$%s",
		passphraseHashVersion,
		iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// VerifyPassphrase 해시와 비교. 형식이 잘못된 해시는 항상 false.
func VerifyPassphrase(passphrase, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != passphraseHashVersion {
		return false
	}

	iters, err := strconv.Atoi(parts[1])
	if err != nil || iters < minIterations {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(salt) == 0 {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(expected) != keyLength {
		return false
	}

	actual := pbkdf2.Key([]byte(passphrase), salt, iters, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}
