package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"float64", 22.5, 22.5},
		{"int", 150, 150.0},
		{"int64", int64(30), 30.0},
		{"plain string", "42.5", 42.5},
		{"currency string", "$45,000.00", 45000.0},
		{"string with spaces", "  20.5 ", 20.5},
		{"garbage string", "not a number", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"map", map[string]any{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AsFloat(tt.input))
		})
	}
}

func TestAsFloatOr(t *testing.T) {
	assert.Equal(t, 0.2, AsFloatOr(nil, 0.2))
	assert.Equal(t, 0.2, AsFloatOr("n/a", 0.2))
	assert.Equal(t, 0.2, AsFloatOr(struct{}{}, 0.2))
	assert.Equal(t, 0.15, AsFloatOr(0.15, 0.2))
	assert.Equal(t, 0.0, AsFloatOr(0.0, 0.2), "explicit zero is not missing")
	assert.Equal(t, 45000.0, AsFloatOr("$45,000", 0.2))
}

func TestAsInt(t *testing.T) {
	assert.Equal(t, 150, AsInt("150"))
	assert.Equal(t, 45000, AsInt("$45,000.00"))
	assert.Equal(t, 0, AsInt("unknown"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.5, 0, 1))
	assert.Equal(t, 1.0, Clamp(1.5, 0, 1))
	assert.Equal(t, 0.75, Clamp(0.75, 0, 1))
}
