package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{name: "bare number", text: "15", want: "15", ok: true},
		{name: "trailing amount", text: "купил хлеб 20", want: "20", ok: true},
		{name: "comma separator", text: "обед 12,75", want: "12.75", ok: true},
		{name: "dot separator", text: "coffee 4.50", want: "4.5", ok: true},
		{name: "first match wins", text: "купил 2 хлеба по 15 рублей", want: "2", ok: true},
		{name: "zero rejected", text: "0", ok: false},
		{name: "zero with decimals rejected", text: "0.00", ok: false},
		{name: "empty string", text: "", ok: false},
		{name: "no digits", text: "просто сообщение", ok: false},
		{name: "digits inside words", text: "заплатил 1500 за аренду", want: "1500", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := ParseAmount(tt.text)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, amount.String())
			}
		})
	}
}

func TestParseAmountNeverNegative(t *testing.T) {
	// The grammar matches no sign, so "-5" parses as 5.
	amount, ok := ParseAmount("-5")
	require.True(t, ok)
	assert.Equal(t, "5", amount.String())
}
