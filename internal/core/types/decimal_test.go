package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePurity(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"99.9", "0.999", true},
		{"91.6", "0.916", true},
		{"0.75", "0.75", true},
		{"1", "1", true},
		{"0", "0", false},
		// millesimal fineness is not a supported input
		{"999", "9.99", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizePurity(MustMoney(tt.in))
			assert.True(t, MustMoney(tt.want).Equal(got), "got %s", got)
			assert.Equal(t, tt.valid, ValidPurity(got))
		})
	}
}
