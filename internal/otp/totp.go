// Package otp computes RFC 6238 time-based one-time codes for the 2FA view.
package otp

import (
	"encoding/base32"
	"errors"
	"strings"
	"time"

	pqotp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Period is the code lifetime.
const Period = 30 * time.Second

// Placeholder is shown when a secret cannot be decoded.
const Placeholder = "000 000"

var ErrBadSecret = errors.New("otp: secret is not valid base32")

var opts = totp.ValidateOpts{
	Period:    uint(Period / time.Second),
	Digits:    pqotp.DigitsSix,
	Algorithm: pqotp.AlgorithmSHA1,
}

// Code returns the six-digit code for secret at t. Spaces and case in the
// secret are ignored.
func Code(secret string, t time.Time) (string, error) {
	s, err := normalizeSecret(secret)
	if err != nil {
		return "", err
	}
	code, err := totp.GenerateCodeCustom(s, t, opts)
	if err != nil {
		return "", ErrBadSecret
	}
	return code, nil
}

// Display formats the code for secret at t as "123 456", or Placeholder when
// the secret is unusable.
func Display(secret string, t time.Time) string {
	code, err := Code(secret, t)
	if err != nil {
		return Placeholder
	}
	return code[:3] + " " + code[3:]
}

// Remaining is the number of whole seconds before the code at t rotates, in
// [1, 30].
func Remaining(t time.Time) int {
	p := int64(Period / time.Second)
	return int(p - t.Unix()%p)
}

// normalizeSecret strips spaces and padding and rejects secrets that do not
// decode to at least one byte.
func normalizeSecret(secret string) (string, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
	s = strings.TrimRight(s, "=")
	if s == "" {
		return "", ErrBadSecret
	}
	if _, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s); err != nil {
		return "", ErrBadSecret
	}
	return s, nil
}
