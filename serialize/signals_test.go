package serialize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/interchange"
)

func TestEmitDecodeComplete_Success(_ *testing.T) {
	// Should not panic
	emitDecodeComplete(context.Background(), interchange.FormatJSON, 128, 10*time.Millisecond, nil)
}

func TestEmitDecodeComplete_Error(_ *testing.T) {
	emitDecodeComplete(context.Background(), interchange.FormatJSON, 0, 10*time.Millisecond, errors.New("test error"))
}

func TestEmitEncodeComplete_Success(_ *testing.T) {
	emitEncodeComplete(context.Background(), interchange.FormatYAML, 64, 10*time.Millisecond, nil)
}

func TestEmitEncodeComplete_Error(_ *testing.T) {
	emitEncodeComplete(context.Background(), interchange.FormatBSON, 0, 10*time.Millisecond, errors.New("test error"))
}

func TestEmitDocumentFailed(_ *testing.T) {
	emitDocumentFailed(context.Background(), interchange.FormatCSV, interchange.ErrNotContainer)
}

func TestFailed_KeepsError(t *testing.T) {
	doc := failed(context.Background(), interchange.FormatJSON, interchange.ErrNotContainer)
	if !errors.Is(doc.Err(), interchange.ErrNotContainer) {
		t.Errorf("Err() = %v, want ErrNotContainer", doc.Err())
	}
	if doc.Content().Kind() != interchange.KindMapping {
		t.Errorf("Content().Kind() = %s, want mapping", doc.Content().Kind())
	}
}
