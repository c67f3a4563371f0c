package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMillitick_String(t *testing.T) {
	cases := []struct {
		in   Millitick
		want string
	}{
		{0, "0mt"},
		{1, "1mt"},
		{999, "999mt"},
		{1000, "1.000t"},
		{1500, "1.500t"},
		{10_000, "10.000t"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.String())
	}
}

func TestMillitick_Ticks(t *testing.T) {
	assert.InDelta(t, 0.0, Millitick(0).Ticks(), 1e-9)
	assert.InDelta(t, 0.5, Millitick(500).Ticks(), 1e-9)
	assert.InDelta(t, 10.0, Millitick(10_000).Ticks(), 1e-9)
}
