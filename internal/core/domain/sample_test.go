package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{21.96, "21.96"},
		{21.9, "21.9"},
		{22, "22.0"},
		{0, "0.0"},
		{-3.5, "-3.5"},
		{0.0001, "0.0001"},
		{0.00003, "3e-05"},
		{1e16, "1e+16"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in), "FormatValue(%v)", tt.in)
	}
}
