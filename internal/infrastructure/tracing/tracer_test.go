package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhookservice/internal/infrastructure/tracing"
)

func TestNewProvider_DisabledIsNoop(t *testing.T) {
	p, err := tracing.NewProvider(tracing.Config{Enabled: false, ServiceName: "webhook-test"})
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NotNil(t, p.Propagator())
	assert.NoError(t, p.Shutdown(context.Background()))
}
