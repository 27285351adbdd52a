package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSKU(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
		ok   bool
	}{
		{name: "int", in: 100, want: 100, ok: true},
		{name: "int64", in: int64(42), want: 42, ok: true},
		{name: "string", in: "00300", want: 300, ok: true},
		{name: "padded string", in: "  400 ", want: 400, ok: true},
		{name: "bytes", in: []byte("12"), want: 12, ok: true},
		{name: "alpha", in: "ABC-1", ok: false},
		{name: "decimal", in: "12.5", ok: false},
		{name: "blank", in: "   ", ok: false},
		{name: "nil", in: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSKU(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatSKU(t *testing.T) {
	assert.Equal(t, "300", FormatSKU(300))
}
