package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veins19/MarketBridge/internal/types"
)

func TestNewGeneratorUnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), Config{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.LLM_PROVIDER_UNKNOWN))
}

func TestStaticGenerator(t *testing.T) {
	gen := &StaticGenerator{Response: "executive insight text"}

	out, err := gen.Generate(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "executive insight text", out)
	assert.Equal(t, "static", gen.Name())
}

func TestStaticGeneratorError(t *testing.T) {
	boom := errors.New("model offline")
	gen := &StaticGenerator{Err: boom}

	_, err := gen.Generate(context.Background(), "system", "user")
	assert.ErrorIs(t, err, boom)
}

func TestStaticGeneratorHonorsContext(t *testing.T) {
	gen := &StaticGenerator{Response: "unused"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, "system", "user")
	assert.ErrorIs(t, err, context.Canceled)
}
