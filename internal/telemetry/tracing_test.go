package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupTracingStdout(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	var buf bytes.Buffer
	tp, err := SetupTracing(context.Background(), Options{
		ServiceName: "emailbuilder-test",
		Stdout:      true,
		Writer:      &buf,
	})
	require.NoError(t, err)
	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := otel.Tracer("telemetry-test").Start(context.Background(), "render-template")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "render-template")
	assert.Contains(t, buf.String(), "emailbuilder-test")
}
