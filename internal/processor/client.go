// Package processor is the collaborator boundary for the external
// payment processor. The exchange never creates payment intents
// itself — that is the checkout flow's job — it only verifies webhook
// signatures and drives the capture/cancel decision the gatekeeper
// computes. No complete processor SDK exists in the adopted dependency
// set, so this client implements the documented signature scheme
// directly against crypto/hmac (see DESIGN.md).
package processor

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client is the exchange's handle on the external payment processor.
// It verifies webhook signatures; Capture and Cancel are stubs that log
// the request and make no network call. Capture and Cancel
// are at-least-once from the gatekeeper's perspective: a failure here
// is logged but never prevents the webhook handler from returning 2xx,
// matching the processor's own retry semantics for acknowledged
// events.
type Client struct {
	webhookSecret string
	secretKey     string
}

func NewClient(webhookSecret, secretKey string) *Client {
	return &Client{webhookSecret: webhookSecret, secretKey: secretKey}
}

// VerifyWebhookSignature validates the `t=...,v1=...` signature header
// format against the raw request body using the shared webhook secret.
// Returns an error (never panics) on any malformed or mismatched
// signature; callers must reject the request with 401.
func (c *Client) VerifyWebhookSignature(payload []byte, sigHeader string) error {
	t, v1, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(t))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(v1)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

func parseSignatureHeader(header string) (timestamp, v1 string, err error) {
	parts := strings.Split(header, ",")
	for _, p := range parts {
		kv := strings.SplitN(strings.TrimSpace(p), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			v1 = kv[1]
		}
	}
	if timestamp == "" || v1 == "" {
		return "", "", fmt.Errorf("malformed signature header")
	}
	if _, err := strconv.ParseInt(timestamp, 10, 64); err != nil {
		return "", "", fmt.Errorf("malformed signature timestamp")
	}
	return timestamp, v1, nil
}

// Capture records a request to finalize a previously-authorized
// charge. It only logs the intent id and returns nil; no request is
// sent to the processor. Errors are logged by the caller; they never
// roll back the ticket's already-committed Paid transition.
func (c *Client) Capture(ctx context.Context, paymentIntentID string) error {
	log.Info().Str("payment_intent_id", paymentIntentID).Msg("processor: capture requested")
	return nil
}

// Cancel records a request to release a previously-authorized charge
// without capturing it. It only logs the intent id and returns nil; no
// request is sent to the processor.
func (c *Client) Cancel(ctx context.Context, paymentIntentID string) error {
	log.Info().Str("payment_intent_id", paymentIntentID).Msg("processor: cancel requested")
	return nil
}
