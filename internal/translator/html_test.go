package translator

import (
	"context"
	"testing"
)

// stubBatcher translates via a lookup table; unknown texts map to themselves.
type stubBatcher struct {
	table map[string]string
	calls int
}

func (s *stubBatcher) Name() string { return "stub" }

func (s *stubBatcher) TranslateBatch(ctx context.Context, texts []string, targetLang string) []string {
	s.calls++
	out := make([]string, len(texts))
	for i, t := range texts {
		if tr, ok := s.table[t]; ok {
			out[i] = tr
		} else {
			out[i] = t
		}
	}
	return out
}

func TestTranslateHTML_Translates(t *testing.T) {
	stub := &stubBatcher{table: map[string]string{"Hello": "Hallo", "World": "Welt"}}

	got, err := TranslateHTML(context.Background(), stub, `<p>Hello <b>World</b></p>`, "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<p>Hallo<b>Welt</b></p>`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if stub.calls != 1 {
		t.Errorf("expected one batch call, got %d", stub.calls)
	}
}

func TestTranslateHTML_NoLeaves(t *testing.T) {
	stub := &stubBatcher{}

	doc := `<div><img src="x.png"/></div>`
	got, err := TranslateHTML(context.Background(), stub, doc, "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != doc {
		t.Errorf("expected document unchanged, got %q", got)
	}
	if stub.calls != 0 {
		t.Errorf("expected no batch call, got %d", stub.calls)
	}
}

func TestTranslateHTML_PreservesAttributes(t *testing.T) {
	stub := &stubBatcher{table: map[string]string{"link": "Verweis"}}

	got, err := TranslateHTML(context.Background(), stub, `<a href="/x" class="nav">link</a>`, "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<a href="/x" class="nav">Verweis</a>`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
