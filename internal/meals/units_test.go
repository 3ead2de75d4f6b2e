package meals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGrams(t *testing.T) {
	tests := []struct {
		quantity float64
		unit     string
		want     float64
	}{
		{150, "g", 150},
		{150, "", 150},
		{1.5, "kg", 1500},
		{500, "mg", 0.5},
		{2, "oz", 56.69904625},
		{1, "LB", 453.59237},
		{250, "ml", 250},
		{0.5, "l", 500},
	}

	for _, tt := range tests {
		got, err := ToGrams(tt.quantity, tt.unit)
		require.NoError(t, err, tt.unit)
		assert.InDelta(t, tt.want, got, 1e-9, tt.unit)
	}

	_, err := ToGrams(2, "pcs")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}
