package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedURLSigner mints download tokens for archived roster sheets. A token
// embeds the archive job id, the expiry, and the sheet's relative path, all
// bound together by an HMAC so a client cannot point it at another file.
type SignedURLSigner struct {
	key []byte
	ttl time.Duration
}

// NewSignedURLSigner constructs a signer with the given secret and token TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{key: []byte(secret), ttl: ttl}
}

// Generate mints a token for the given archive job and relative path.
func (s *SignedURLSigner) Generate(jobID, relPath string) (string, time.Time, error) {
	if jobID == "" || relPath == "" {
		return "", time.Time{}, errors.New("job id and path required")
	}
	if len(s.key) == 0 {
		return "", time.Time{}, errors.New("signing secret not configured")
	}

	expiresAt := time.Now().Add(s.ttl)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	sig := s.sign(jobID, exp, encoded)

	return jobID + "." + exp + "." + encoded + "." + sig, expiresAt, nil
}

// Parse verifies a token and returns what it references. Cleanup callers
// pass allowExpired to resolve paths for tokens past their expiry.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (string, string, time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, errors.New("malformed download token")
	}
	jobID, exp, encoded, sig := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(jobID, exp, encoded)), []byte(sig)) {
		return "", "", time.Time{}, errors.New("download token signature mismatch")
	}

	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", "", time.Time{}, errors.New("malformed download token")
	}
	expiresAt := time.Unix(expUnix, 0)
	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, errors.New("download token expired")
	}

	relPath, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode token path: %w", err)
	}

	return jobID, string(relPath), expiresAt, nil
}

func (s *SignedURLSigner) sign(jobID, exp, encodedPath string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(jobID + "\x00" + exp + "\x00" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
