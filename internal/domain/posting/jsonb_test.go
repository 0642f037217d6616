package posting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVATPolicyJSONB(t *testing.T) {
	in := VATPolicy{OnMaking: true, Percentage: d("5")}

	raw, err := in.Value()
	require.NoError(t, err)

	var out VATPolicy
	require.NoError(t, out.Scan(raw))
	assert.True(t, out.OnMaking)
	assert.False(t, out.Exclude)
	assert.True(t, out.Percentage.Equal(d("5")))

	var fromString Summary
	require.NoError(t, fromString.Scan(`{"totalAmount":"1250.50","fxGainLoss":"-3"}`))
	assert.True(t, fromString.TotalAmount.Equal(d("1250.5")))
	assert.True(t, fromString.FXGainLoss.Equal(d("-3")))
}

func TestScanJSONEdgeCases(t *testing.T) {
	var s Summary
	require.NoError(t, s.Scan(nil))
	require.NoError(t, s.Scan([]byte{}))
	assert.True(t, s.TotalAmount.IsZero())

	err := s.Scan(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Summary")

	assert.Error(t, s.Scan([]byte("{")))
}
