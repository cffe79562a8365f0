package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/storefront/pkg/router"
)

// Default tracer name for storefront spans.
const defaultTracerName = "storefront"

// OTelConfig configures the OpenTelemetry navigation tracer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "storefront").
	TracerName string

	// Provider supplies the tracer. Default: the global tracer provider.
	Provider trace.TracerProvider

	// IncludeQuery records the query string of the hash path.
	// It may carry search terms, so it is disabled by default.
	IncludeQuery bool

	// Filter determines which navigations to trace.
	// If nil, all navigations are traced.
	Filter func(ev router.Event) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(ev router.Event) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry navigation tracer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.Provider = tp
	}
}

// WithIncludeQuery enables recording the hash query string.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// WithEventFilter sets a filter function for navigations.
func WithEventFilter(filter func(ev router.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ev router.Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracer turns finished navigations into spans and traces form submissions.
type Tracer struct {
	config OTelConfig
	tracer trace.Tracer
}

// OpenTelemetry creates a navigation tracer. It implements router.Observer.
//
// Each navigation becomes one span named after its route, backdated to the
// moment the navigation started. Outcome and sequence number are recorded as
// attributes. Failed navigations record the error and an Error status.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. internal/telemetry configures the global one.
func OpenTelemetry(opts ...OTelOption) *Tracer {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracer{
		config: config,
		tracer: config.Provider.Tracer(config.TracerName),
	}
}

// ObserveNavigation implements router.Observer.
func (t *Tracer) ObserveNavigation(ev router.Event) {
	if t.config.Filter != nil && !t.config.Filter(ev) {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("storefront.path", ev.Path),
		attribute.String("storefront.route", ev.Route),
		attribute.String("storefront.outcome", ev.Outcome.String()),
		attribute.Int64("storefront.seq", int64(ev.Seq)),
	}
	if t.config.IncludeQuery && ev.Query != "" {
		attrs = append(attrs, attribute.String("storefront.query", ev.Query))
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(ev)...)
	}

	_, span := t.tracer.Start(
		context.Background(),
		fmt.Sprintf("navigate %s", ev.Route),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(ev.Start),
	)
	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, ev.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(ev.Start.Add(ev.Duration)))
}

// StartSubmit starts a span for a form submission. The caller ends it with
// EndSubmit.
func (t *Tracer) StartSubmit(ctx context.Context, form, route string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "submit "+form,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("storefront.form", form),
			attribute.String("storefront.route", route),
		),
	)
}

// EndSubmit records err, if any, and ends span.
func EndSubmit(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
