package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "x-razorpay-signature"

// EventIDHeader is the provider's per-delivery event identifier.
const EventIDHeader = "x-razorpay-event-id"

var (
	ErrSecretMissing    = errors.New("razorpay webhook secret missing")
	ErrSignatureMissing = errors.New("razorpay signature missing")
	ErrSignatureInvalid = errors.New("razorpay signature invalid")
)

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against the exact raw body. The secret is
// checked first so a misconfigured deployment never reports a bad signature.
func VerifySignature(body []byte, secret, signature string) error {
	if secret == "" {
		return ErrSecretMissing
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrSignatureMissing
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return ErrSignatureInvalid
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), provided) {
		return ErrSignatureInvalid
	}
	return nil
}
