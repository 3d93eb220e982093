package translator

import (
	"context"
	"fmt"
	"os"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// Google adapts the Google Cloud Translation API to the Batcher contract.
// Errors surface as all-empty results so callers see the same failure shape
// as with the REST provider.
type Google struct {
	credentials string
}

// NewGoogle creates an adapter. credentials may be empty to use ambient
// application-default credentials.
func NewGoogle(credentials string) *Google {
	return &Google{credentials: credentials}
}

func (s *Google) Name() string {
	return "google"
}

func (s *Google) TranslateBatch(ctx context.Context, texts []string, targetLang string) []string {
	if len(texts) == 0 {
		return nil
	}
	empty := make([]string, len(texts))

	tag, err := language.Parse(targetLang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid target language %q: %v\n", targetLang, err)
		return empty
	}

	var opts []option.ClientOption
	if s.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create translation client: %v\n", err)
		return empty
	}
	defer client.Close()

	translations, err := client.Translate(ctx, texts, tag, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "translation failed: %v\n", err)
		return empty
	}

	out := make([]string, len(texts))
	for i := 0; i < len(out) && i < len(translations); i++ {
		out[i] = translations[i].Text
	}
	return out
}
