package authfilter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}
	ctx := context.Background()

	got, span := tracer.StartSpan(ctx, "test_span")

	_, ok := span.(*NoopSpan)
	assert.True(t, ok, "Should return a NoopSpan")
	assert.Equal(t, ctx, got)

	// Test span methods - these should not panic
	span.SetTag("tag", "value")
	span.RecordError(errors.New("boom"))
	span.Finish()
}

func TestOpenTelemetryTracer(t *testing.T) {
	tp := noop.NewTracerProvider()
	tracer := NewOpenTelemetryTracer(tp.Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), "test_span")

	_, ok := span.(*OpenTelemetrySpan)
	assert.True(t, ok, "Should return an OpenTelemetrySpan")

	span.SetTag("string", "value")
	span.SetTag("int", int64(1))
	span.SetTag("bool", true)
	span.SetTag("other", 1.5)
	span.RecordError(errors.New("boom"))
	span.Finish()
}

type recordingTracer struct {
	spans []*recordingSpan
}

type recordingSpan struct {
	name     string
	tags     map[string]any
	errs     []error
	finished bool
}

func (t *recordingTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	s := &recordingSpan{name: name, tags: map[string]any{}}
	t.spans = append(t.spans, s)
	return ctx, s
}

func (s *recordingSpan) Finish()                      { s.finished = true }
func (s *recordingSpan) SetTag(key string, value any) { s.tags[key] = value }
func (s *recordingSpan) RecordError(err error)        { s.errs = append(s.errs, err) }

func TestFilter_Tracing(t *testing.T) {
	env := newTestEnv(t)
	tracer := &recordingTracer{}

	filter, err := New(WithCredentialService(env.service), WithTracer(tracer))
	require.NoError(t, err)
	handler := filter.Handler(principalHandler)

	for _, authorization := range []string{"Bearer abc123", "Bearer nope"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
		req.Header.Set("Authorization", authorization)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	// bypassed requests are not traced
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, tracer.spans, 2)

	ok := tracer.spans[0]
	assert.True(t, ok.finished)
	assert.Equal(t, "authfilter.Authenticate", ok.name)
	assert.Equal(t, outcomeAPIKey, ok.tags["auth.outcome"])
	assert.Equal(t, env.user.ID, ok.tags["auth.member_id"])
	assert.Empty(t, ok.errs)

	failed := tracer.spans[1]
	assert.True(t, failed.finished)
	require.Len(t, failed.errs, 1)
}
