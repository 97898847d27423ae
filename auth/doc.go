// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the admin password check and session tokens.

# Password

The admin password lives only in server configuration. CheckPassword
compares SHA-256 digests in constant time:

	if err := auth.CheckPassword(req.Password, cfg.AdminPassword); err != nil {
		// 401
	}

# Admin Tokens

A successful password check is exchanged for a signed, expiring token:

	token, expiresAt, err := auth.IssueAdminToken(salt, 12*time.Hour, time.Now())
	err = auth.ValidateAdminToken(token, salt, time.Now())

Tokens have the form <expiry>.<nonce>.<signature>. The signature is an
HMAC-SHA256 over the expiry and nonce, URL-safe base64 encoded without
padding. Nothing is stored server-side; rotating the salt revokes every
outstanding token.

Validation returns ErrInvalidToken for malformed or forged tokens and
ErrExpiredToken once the expiry has passed.
*/
package auth
