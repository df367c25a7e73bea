package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupStdout(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), Options{Enabled: true, Stdout: true, Writer: &buf, ServiceName: "test"})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "list news")
	span.End()
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "list news")
}
