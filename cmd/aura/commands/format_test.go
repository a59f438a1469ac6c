package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1234567.891, "1,234,567.89"},
		{-100000000, "-100,000,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, groupThousands(tt.in))
	}
}

func TestFormatCells(t *testing.T) {
	v := 12.5
	assert.Empty(t, formatAmount(nil))
	assert.Len(t, formatAmount(&v), valueWidth)
	assert.Equal(t, "           -", formatRatio(nil))
	assert.Equal(t, "     12.5000", formatRatio(&v))
}

func TestPadCellCountsWideRunes(t *testing.T) {
	assert.Equal(t, 4, displayWidth("资产"))
	assert.Equal(t, "资产  ", padCell("资产", 6))
	assert.Equal(t, "abc", padCell("abc", 2))
}
