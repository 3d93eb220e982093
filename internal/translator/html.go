package translator

import (
	"context"

	"github.com/Jiangshanshi5/TranslateMode/internal/markup"
)

// TranslateHTML translates an HTML document by extracting its text leaves,
// batch-translating them, and substituting the results back at the same
// positions. Markup structure and attributes are never sent to the service.
// A document with no extractable leaves is returned unchanged without a
// network call.
func TranslateHTML(ctx context.Context, b Batcher, doc, targetLang string) (string, error) {
	leaves, err := markup.Extract(doc)
	if err != nil {
		return "", err
	}
	if len(leaves) == 0 {
		return doc, nil
	}

	texts := make([]string, len(leaves))
	for i, l := range leaves {
		texts[i] = l.Text
	}

	return markup.Reconstruct(doc, b.TranslateBatch(ctx, texts, targetLang))
}
