package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "****", MaskSecret("1234"))
	assert.Equal(t, "txn_****7890", MaskSecret("txn_1234567890"))
	assert.Equal(t, "UPI-****7766", MaskSecret("UPI-99887766"))
}

func TestMaskContact(t *testing.T) {
	assert.Equal(t, "a****@example.com", MaskContact("asha@example.com"))
	assert.Equal(t, "****10", MaskContact("+91 98765 43210"))
	assert.Equal(t, "****", MaskContact("7"))
}

func TestMaskSensitive(t *testing.T) {
	out := MaskSensitive(map[string]any{
		"amount":    int64(500),
		"reference": "UPI-99887766",
		"phone":     "9876543210",
		"diagnosis": "lumbar strain",
		"nested":    map[string]any{"card_last4": "4242", "method": "CARD"},
	})

	assert.Equal(t, int64(500), out["amount"])
	assert.Equal(t, "UPI-****7766", out["reference"])
	assert.Equal(t, "****10", out["phone"])
	assert.NotContains(t, out, "diagnosis")
	nested := out["nested"].(map[string]any)
	assert.Equal(t, "****", nested["card_last4"])
	assert.Equal(t, "CARD", nested["method"])

	assert.NotNil(t, MaskSensitive(nil))
}
