// Package auth verifies the HMAC-signed bearer tokens the account service
// issues. This gateway only ever verifies; issuing lives with the account
// service (Sign is here for it and for tests).
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

type Token struct {
	Secret []byte
}

var (
	ErrBadToken   = errors.New("bad token")
	ErrBadSig     = errors.New("invalid signature")
	ErrExpired    = errors.New("expired")
	ErrBadPayload = errors.New("bad payload")
)

// Sign produces "<payload>.<sig>", both halves unpadded URL-safe base64.
func (t Token) Sign(userID string, exp time.Time) string {
	msg := userID + "|" + strconv.FormatInt(exp.Unix(), 10)
	return base64.RawURLEncoding.EncodeToString([]byte(msg)) + "." + t.sign([]byte(msg))
}

func (t Token) sign(msg []byte) string {
	mac := hmac.New(sha256.New, t.Secret)
	mac.Write(msg)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks signature and expiry and returns the embedded user id. The
// signature check is constant-time; only the single canonical encoding from
// Sign is accepted.
func (t Token) Verify(token string) (string, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrBadToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrBadToken
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrBadToken
	}

	mac := hmac.New(sha256.New, t.Secret)
	mac.Write(raw)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return "", ErrBadSig
	}

	fields := strings.SplitN(string(raw), "|", 2)
	if len(fields) != 2 {
		return "", ErrBadPayload
	}
	userID := strings.TrimSpace(fields[0])
	ts, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || userID == "" {
		return "", ErrBadPayload
	}
	if time.Now().After(time.Unix(ts, 0)) {
		return "", ErrExpired
	}
	return userID, nil
}
