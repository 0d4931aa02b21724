package outbox

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/product-catalog/pkg/correlationid"
)

const (
	EventTypeHeader   = "x-event-type"
	ContentTypeHeader = "content-type"

	jsonContentType = "application/json"
)

// Headers travel with an outbox message from the database row to the broker
// record. They carry the trace context, the correlation id and the event type.
type Headers map[string]string

// BuildHeaders captures the request scoped values of ctx for an event of the
// given type.
func BuildHeaders(ctx context.Context, eventType string) Headers {
	h := Headers{
		EventTypeHeader:   eventType,
		ContentTypeHeader: jsonContentType,
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(h))

	if id, ok := correlationid.FromContext(ctx); ok {
		h[correlationid.Header] = id
	}

	return h
}

// HeadersFromRecord flattens Kafka record headers. Later duplicates win.
func HeadersFromRecord(rec *kgo.Record) Headers {
	h := make(Headers, len(rec.Headers))
	for _, rh := range rec.Headers {
		h[rh.Key] = string(rh.Value)
	}
	return h
}

// Context restores the trace context and correlation id carried by h on top of ctx.
func (h Headers) Context(ctx context.Context) context.Context {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(h))

	if id, ok := h[correlationid.Header]; ok && id != "" {
		ctx = correlationid.NewContext(ctx, id)
	}

	return ctx
}

func (h Headers) EventType() string {
	return h[EventTypeHeader]
}
