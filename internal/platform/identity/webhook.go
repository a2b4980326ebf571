package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Webhook signature scheme: the provider signs "<id>.<timestamp>.<body>" with
// HMAC-SHA256 and sends base64 signatures in the webhook-signature header,
// space-separated, each prefixed with a version ("v1,<sig>").

var (
	ErrWebhookSignature = errors.New("webhook signature mismatch")
	ErrWebhookTimestamp = errors.New("webhook timestamp outside tolerance")
	ErrWebhookHeaders   = errors.New("webhook headers missing or malformed")
)

// Verifier checks inbound webhook authenticity before events reach consumers.
type Verifier struct {
	Secret    []byte
	Tolerance time.Duration
}

func NewVerifier(secret string, tolerance time.Duration) Verifier {
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return Verifier{Secret: []byte(secret), Tolerance: tolerance}
}

// Verify validates the signature header against the raw body. msgID and
// timestamp come from the webhook-id and webhook-timestamp headers.
func (v Verifier) Verify(msgID, timestamp, signatureHeader string, body []byte, now time.Time) error {
	if msgID == "" || timestamp == "" || signatureHeader == "" {
		return ErrWebhookHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrWebhookHeaders
	}
	sent := time.Unix(ts, 0)
	if sent.Before(now.Add(-v.Tolerance)) || sent.After(now.Add(v.Tolerance)) {
		return ErrWebhookTimestamp
	}

	mac := hmac.New(sha256.New, v.Secret)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := mac.Sum(nil)

	for _, candidate := range strings.Fields(signatureHeader) {
		_, encoded, found := strings.Cut(candidate, ",")
		if !found {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}
		if hmac.Equal(raw, expected) {
			return nil
		}
	}
	return ErrWebhookSignature
}
