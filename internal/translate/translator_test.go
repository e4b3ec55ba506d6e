package translate

import (
	"context"
	"strings"
	"testing"
)

func TestTranslateShortInput(t *testing.T) {
	mock := NewMockProvider()
	mock.Translations["Tomato"] = "طماطم"
	tr := NewTranslator(mock)

	got := tr.Translate(context.Background(), "Tomato", LangEnglish, LangArabic)
	if got != "طماطم" {
		t.Errorf("got %q, want %q", got, "طماطم")
	}
	if len(mock.Calls) != 1 {
		t.Errorf("expected 1 provider call, got %d", len(mock.Calls))
	}
}

func TestTranslateEmptyInputSkipsProvider(t *testing.T) {
	mock := NewMockProvider()
	tr := NewTranslator(mock)

	if got := tr.Translate(context.Background(), "   ", LangEnglish, LangArabic); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("provider should not be called for blank input, got %d calls", len(mock.Calls))
	}
}

func TestTranslateFailureDegradesToEmpty(t *testing.T) {
	mock := NewMockProvider()
	mock.Fail = true
	tr := NewTranslator(mock)

	if got := tr.Translate(context.Background(), "Tomato", LangEnglish, LangArabic); got != "" {
		t.Errorf("got %q, want empty on provider failure", got)
	}
	if len(mock.Calls) != 1 {
		t.Errorf("expected the provider to be asked once, got %d", len(mock.Calls))
	}
}

// Long inputs split into ceil(len/450) ordered chunks; with an identity
// provider the concatenation reproduces the input exactly.
func TestTranslateChunking(t *testing.T) {
	mock := NewMockProvider()
	mock.Identity = true
	tr := NewTranslator(mock)

	input := strings.Repeat("abcdefghij", 100) // 1000 chars -> 3 chunks
	got := tr.Translate(context.Background(), input, LangEnglish, LangArabic)

	if got != input {
		t.Errorf("identity chunked translation altered the input")
	}
	if len(mock.Calls) != 3 {
		t.Fatalf("expected 3 provider calls, got %d", len(mock.Calls))
	}
	if len([]rune(mock.Calls[0])) != MaxQueryChars || len([]rune(mock.Calls[1])) != MaxQueryChars {
		t.Errorf("expected full chunks of %d runes", MaxQueryChars)
	}
	if len([]rune(mock.Calls[2])) != 100 {
		t.Errorf("expected final chunk of 100 runes, got %d", len([]rune(mock.Calls[2])))
	}
	if mock.Calls[0]+mock.Calls[1]+mock.Calls[2] != input {
		t.Errorf("chunks are not consecutive slices of the input")
	}
}

func TestTranslateChunkingCountsRunes(t *testing.T) {
	mock := NewMockProvider()
	mock.Identity = true
	tr := NewTranslator(mock)

	// 500 two-byte runes: one chunk of 450 and one of 50
	input := strings.Repeat("ش", 500)
	got := tr.Translate(context.Background(), input, LangArabic, LangEnglish)

	if got != input {
		t.Errorf("identity chunked translation altered the input")
	}
	if len(mock.Calls) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(mock.Calls))
	}
}

// A whitespace-only run inside a long text is still a chunk: every input
// position reaches the provider and identity translation loses nothing.
func TestTranslateChunkingKeepsWhitespaceChunks(t *testing.T) {
	mock := NewMockProvider()
	mock.Identity = true
	tr := NewTranslator(mock)

	input := strings.Repeat("a", MaxQueryChars) +
		strings.Repeat(" ", MaxQueryChars) +
		strings.Repeat("b", 100)
	got := tr.Translate(context.Background(), input, LangEnglish, LangArabic)

	if got != input {
		t.Errorf("identity chunked translation altered the input")
	}
	if len(mock.Calls) != 3 {
		t.Fatalf("expected 3 provider calls, got %d", len(mock.Calls))
	}
	if strings.TrimSpace(mock.Calls[1]) != "" {
		t.Errorf("middle chunk should be the whitespace run, got %q", mock.Calls[1])
	}
}

// A failing chunk contributes nothing; surrounding chunks still translate.
func TestTranslatePartialChunkFailure(t *testing.T) {
	failing := &flakyProvider{failOn: 2}
	tr := NewTranslator(failing)

	input := strings.Repeat("x", MaxQueryChars*3)
	got := tr.Translate(context.Background(), input, LangEnglish, LangArabic)

	want := strings.Repeat("x", MaxQueryChars*2)
	if got != want {
		t.Errorf("expected output to skip the failed chunk: got %d chars, want %d", len(got), len(want))
	}
	if failing.calls != 3 {
		t.Errorf("expected all 3 chunks attempted, got %d", failing.calls)
	}
}

// flakyProvider fails on one specific call (1-based) and echoes otherwise.
type flakyProvider struct {
	failOn int
	calls  int
}

func (f *flakyProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	f.calls++
	if f.calls == f.failOn {
		return "", ErrUnavailable
	}
	return text, nil
}
