package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultEndpoint is the public Microsoft Translator endpoint.
const DefaultEndpoint = "https://api.cognitive.microsofttranslator.com"

// DefaultRetries is the total number of attempts per batch, including the first.
const DefaultRetries = 3

// Microsoft calls the Microsoft Translator v3 REST API. Requests use HTML
// text mode, so texts containing literal angle brackets pass through safely.
type Microsoft struct {
	key      string
	region   string
	endpoint string
	retries  int
	// backoff is the base unit for the 2^attempt wait between attempts;
	// tests shrink it.
	backoff time.Duration
	client  *http.Client
}

// NewMicrosoft creates a client. endpoint may be empty for the public
// endpoint; retries <= 0 selects DefaultRetries.
func NewMicrosoft(key, region, endpoint string, retries int) *Microsoft {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if retries <= 0 {
		retries = DefaultRetries
	}
	return &Microsoft{
		key:      key,
		region:   region,
		endpoint: strings.TrimRight(endpoint, "/"),
		retries:  retries,
		backoff:  time.Second,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *Microsoft) Name() string {
	return "microsoft"
}

// TranslateBatch sends all texts as one request. Non-200 responses and
// transport failures are retried with exponential backoff; once the retry
// budget is exhausted the whole batch is reported failed as a same-length
// slice of empty strings.
func (s *Microsoft) TranslateBatch(ctx context.Context, texts []string, targetLang string) []string {
	if len(texts) == 0 {
		return nil
	}

	apiURL := fmt.Sprintf("%s/translate?api-version=3.0&to=%s&textType=html",
		s.endpoint, url.QueryEscape(targetLang))

	items := make([]requestItem, len(texts))
	for i, t := range texts {
		items[i] = requestItem{Text: t}
	}
	body, err := json.Marshal(items)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode translation request: %v\n", err)
		return make([]string, len(texts))
	}

	for attempt := 0; attempt < s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.backoff << attempt):
			case <-ctx.Done():
				return make([]string, len(texts))
			}
		}

		out, err := s.post(ctx, apiURL, body, len(texts))
		if err == nil {
			return out
		}
		fmt.Fprintf(os.Stderr, "translation attempt %d/%d failed: %v\n", attempt+1, s.retries, err)
	}

	return make([]string, len(texts))
}

type requestItem struct {
	Text string `json:"Text"`
}

func (s *Microsoft) post(ctx context.Context, apiURL string, body []byte, count int) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", s.region)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, msg)
	}

	var data []struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// One result per input; items the service returned nothing for stay empty.
	out := make([]string, count)
	for i := 0; i < count && i < len(data); i++ {
		if len(data[i].Translations) > 0 {
			out[i] = data[i].Translations[0].Text
		}
	}
	return out, nil
}
