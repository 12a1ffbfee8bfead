package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	p, err := Setup(context.Background(), "", "rpsadmin")
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid(), "noop spans carry no context")
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetup_EnabledWithEndpoint(t *testing.T) {
	p, err := Setup(context.Background(), "localhost:4318", "")
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "GET /faculties")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Export to an absent collector may fail; shutdown must still return.
	_ = p.Shutdown(ctx)
}

func TestNilProvider_TracerIsUsable(t *testing.T) {
	var p *Provider
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer())
	assert.NoError(t, p.Shutdown(context.Background()))
}
