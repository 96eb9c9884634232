package processor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignatureAcceptsValidSignature(t *testing.T) {
	c := NewClient("whsec_test", "")
	payload := []byte(`{"type":"payment_intent.amount_capturable_updated"}`)
	v1 := sign("whsec_test", "1700000000", payload)
	header := fmt.Sprintf("t=%s,v1=%s", "1700000000", v1)

	require.NoError(t, c.VerifyWebhookSignature(payload, header))
}

func TestVerifyWebhookSignatureRejectsTamperedPayload(t *testing.T) {
	c := NewClient("whsec_test", "")
	payload := []byte(`{"type":"payment_intent.amount_capturable_updated"}`)
	v1 := sign("whsec_test", "1700000000", payload)
	header := fmt.Sprintf("t=%s,v1=%s", "1700000000", v1)

	tampered := []byte(`{"type":"payment_intent.amount_capturable_updated","amount":999999}`)
	assert.Error(t, c.VerifyWebhookSignature(tampered, header))
}

func TestVerifyWebhookSignatureRejectsWrongSecret(t *testing.T) {
	c := NewClient("whsec_real", "")
	payload := []byte(`{"type":"payment_intent.amount_capturable_updated"}`)
	v1 := sign("whsec_wrong", "1700000000", payload)
	header := fmt.Sprintf("t=%s,v1=%s", "1700000000", v1)

	assert.Error(t, c.VerifyWebhookSignature(payload, header))
}

func TestVerifyWebhookSignatureRejectsMalformedHeader(t *testing.T) {
	c := NewClient("whsec_test", "")
	payload := []byte(`{}`)

	cases := []string{
		"",
		"t=1700000000",
		"v1=deadbeef",
		"t=notanumber,v1=deadbeef",
	}
	for _, h := range cases {
		assert.Error(t, c.VerifyWebhookSignature(payload, h), "header %q should be rejected", h)
	}
}
