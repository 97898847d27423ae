// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidPassword = errors.New("invalid admin password")
	ErrInvalidToken    = errors.New("invalid token format")
	ErrExpiredToken    = errors.New("admin session expired")
)

// CheckPassword compares a submitted admin password with the configured one
// in constant time
func CheckPassword(given, configured string) error {
	if configured == "" {
		return ErrInvalidPassword
	}
	g := sha256.Sum256([]byte(given))
	c := sha256.Sum256([]byte(configured))
	if !hmac.Equal(g[:], c[:]) {
		return ErrInvalidPassword
	}
	return nil
}

// IssueAdminToken creates a signed admin session token that expires after ttl.
// Token layout: <expiry unix>.<nonce>.<signature>
func IssueAdminToken(salt string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := now.Add(ttl).UTC().Truncate(time.Second)
	payload := strconv.FormatInt(expiresAt.Unix(), 10) + "." + nonce
	return payload + "." + sign(payload, salt), expiresAt, nil
}

// ValidateAdminToken checks the token signature and expiry
func ValidateAdminToken(token, salt string, now time.Time) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(sign(payload, salt))) {
		return ErrInvalidToken
	}

	exp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ErrInvalidToken
	}
	if !now.Before(time.Unix(exp, 0)) {
		return ErrExpiredToken
	}

	return nil
}

// sign returns the HMAC-SHA256 of payload under salt
func sign(payload, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("admin:" + payload))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// generateNonce makes otherwise identical tokens distinct
func generateNonce() (string, error) {
	b := make([]byte, 12)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token nonce: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
