package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLogExporter(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewLogExporter(logger)))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	_, span := provider.Tracer("test").Start(context.Background(), "sync.origin")
	span.SetAttributes(attribute.String("sync.origin", "kodik"))
	span.End()

	out := buf.String()
	assert.Contains(t, out, "Span finished")
	assert.Contains(t, out, "span=sync.origin")
	assert.Contains(t, out, "sync.origin=kodik")
}

func TestSetup_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	shutdown := Setup(false, logger)
	defer shutdown()

	_, span := otel.Tracer("test").Start(context.Background(), "sync.run")
	assert.False(t, span.IsRecording())
	span.End()
	assert.Empty(t, buf.String())
}
