package translator

import (
	"context"
)

// Batcher translates a batch of texts into one target language.
//
// TranslateBatch returns exactly one entry per input text. A failed item is
// reported as an empty string, never as an error: callers must treat an empty
// result as "this item did not translate" and leave the stored value alone.
// An empty input batch returns an empty result without any network traffic.
type Batcher interface {
	Name() string
	TranslateBatch(ctx context.Context, texts []string, targetLang string) []string
}
