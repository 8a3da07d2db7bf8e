package serialize

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/interchange"
)

// Signals for document events.
var (
	SignalDecodeComplete = capitan.NewSignal("interchange.decode.complete", "Decode operation finished")
	SignalEncodeComplete = capitan.NewSignal("interchange.encode.complete", "Encode operation finished")
	SignalDocumentFailed = capitan.NewSignal("interchange.document.failed", "Document degraded to an error document")
)

// Keys for typed event data.
var (
	KeyFormat   = capitan.NewStringKey("format")
	KeySize     = capitan.NewIntKey("size")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
	KeyMessage  = capitan.NewStringKey("message")
)

// emitDecodeComplete emits an event when a factory finishes parsing.
func emitDecodeComplete(ctx context.Context, format interchange.Format, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(string(format)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitEncodeComplete emits an event when a conversion finishes.
func emitEncodeComplete(ctx context.Context, format interchange.Format, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(string(format)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDocumentFailed emits an event when a factory yields an error document.
func emitDocumentFailed(ctx context.Context, format interchange.Format, err error) {
	capitan.Error(ctx, SignalDocumentFailed,
		KeyFormat.Field(string(format)),
		KeyMessage.Field(err.Error()),
		KeyError.Field(err),
	)
}
