package translator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/valpere/dhwani/internal/endpoint"
)

// newTestClient points a Client at server through the localhost branch.
func newTestClient(t *testing.T, server *httptest.Server) (*Client, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	resolver := endpoint.NewResolver(server.URL, "http://remote.invalid", logger)
	c := NewClient(resolver, ServiceConfig{Timeout: 5 * time.Second}, logger)
	c.client = server.Client()
	return c, hook
}

// echoHandler returns the posted sentences as translations.
func echoHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"translations": req.Sentences})
	}
}

func hasErrorEntry(hook *test.Hook) bool {
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			return true
		}
	}
	return false
}

func TestClient_Translate_EchoRoundTrip(t *testing.T) {
	server := httptest.NewServer(echoHandler(t))
	defer server.Close()

	c, _ := newTestClient(t, server)

	text := "Hello world this is a test"
	result, err := c.Translate(context.Background(), TranslateRequest{
		Text:         text,
		SourceLang:   "kan_Knda",
		TargetLang:   "eng_Latn",
		UseLocalhost: true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Translations) != 1 || result.Translations[0] != text {
		t.Errorf("expected [%q], got %q", text, result.Translations)
	}
	if result.Chunks != 1 {
		t.Errorf("expected 1 chunk, got %d", result.Chunks)
	}
	if result.Error != "" {
		t.Errorf("expected no error message, got %q", result.Error)
	}
}

func TestClient_Translate_LongTextIsChunked(t *testing.T) {
	sent := make(chan []string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		json.NewDecoder(r.Body).Decode(&req)
		sent <- req.Sentences
		json.NewEncoder(w).Encode(map[string]interface{}{"translations": req.Sentences})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	words := make([]string, 40)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, "  \n")

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: text, SourceLang: "kan_Knda", TargetLang: "eng_Latn", UseLocalhost: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotSentences := <-sent
	if len(gotSentences) != 3 {
		t.Fatalf("expected 3 chunks sent, got %d", len(gotSentences))
	}
	for i, s := range gotSentences {
		if n := len(strings.Fields(s)); n > 15 {
			t.Errorf("chunk %d has %d words", i, n)
		}
	}
	if result.Text() != strings.Join(words, " ") {
		t.Errorf("expected whitespace-normalised text back, got %q", result.Text())
	}
}

func TestClient_Translate_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/translate" {
			t.Errorf("expected /translate, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("src_lang") != "kan_Knda" || q.Get("tgt_lang") != "hin_Deva" || q.Get("device_type") != "cuda" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected Accept %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected Content-Type %q", r.Header.Get("Content-Type"))
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["src_lang"] != "kan_Knda" || body["tgt_lang"] != "hin_Deva" {
			t.Errorf("unexpected body languages: %v", body)
		}
		if _, ok := body["sentences"].([]interface{}); !ok {
			t.Errorf("expected sentences array, got %#v", body["sentences"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"translations": []string{"ok"}})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: "ನಮಸ್ಕಾರ", SourceLang: "kan_Knda", TargetLang: "hin_Deva", UseGPU: true, UseLocalhost: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeviceType != "cuda" {
		t.Errorf("expected cuda, got %q", result.DeviceType)
	}
	if !strings.HasPrefix(result.Endpoint, server.URL+"/translate?") {
		t.Errorf("unexpected endpoint %q", result.Endpoint)
	}
}

func TestClient_Translate_EmptyInputSendsEmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		json.NewDecoder(r.Body).Decode(&body)
		if string(body["sentences"]) != "[]" {
			t.Errorf("expected sentences [], got %s", body["sentences"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"translations": []string{}})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: "   ", SourceLang: "kan_Knda", TargetLang: "eng_Latn", UseLocalhost: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Chunks != 0 {
		t.Errorf("expected 0 chunks, got %d", result.Chunks)
	}
	if len(result.Translations) != 1 || result.Translations[0] != "" {
		t.Errorf("expected [\"\"], got %q", result.Translations)
	}
}

func TestClient_Translate_EmptyTranslations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translations": []}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: "Hello", SourceLang: "eng_Latn", TargetLang: "kan_Knda", UseLocalhost: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Translations) != 1 || result.Translations[0] != "" {
		t.Errorf("expected [\"\"], got %q", result.Translations)
	}
}

func TestClient_Translate_MissingTranslationsField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: "Hello", SourceLang: "eng_Latn", TargetLang: "kan_Knda", UseLocalhost: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text() != "" {
		t.Errorf("expected empty text, got %q", result.Text())
	}
}

func TestClient_Translate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model crashed"))
	}))
	defer server.Close()

	c, hook := newTestClient(t, server)

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: "Hello", SourceLang: "eng_Latn", TargetLang: "kan_Knda", UseLocalhost: true,
	})

	if err == nil {
		t.Fatal("expected error for non-OK status")
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("expected ErrRequestFailed, got %v", err)
	}
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if re.Kind != KindBackend || re.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected error details: %+v", re)
	}
	if re.Body != "model crashed" {
		t.Errorf("expected body in error, got %q", re.Body)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if len(result.Translations) != 1 || result.Translations[0] != "" {
		t.Errorf("expected [\"\"], got %q", result.Translations)
	}
	if result.Error == "" {
		t.Error("expected error message in result")
	}
	if !hasErrorEntry(hook) {
		t.Error("expected an error log entry")
	}
}

func TestClient_Translate_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: "Hello", SourceLang: "eng_Latn", TargetLang: "kan_Knda", UseLocalhost: true,
	})
	if KindOf(err) != KindParse {
		t.Errorf("expected parse error, got %v", err)
	}
	if result.Text() != "" {
		t.Errorf("expected empty text, got %q", result.Text())
	}
}

func TestClient_Translate_NetworkError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	resolver := endpoint.NewResolver("http://127.0.0.1:19999", "", logger)
	c := NewClient(resolver, ServiceConfig{Timeout: 200 * time.Millisecond}, logger)

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: "Hello", SourceLang: "eng_Latn", TargetLang: "kan_Knda", UseLocalhost: true,
	})
	if KindOf(err) != KindNetwork {
		t.Errorf("expected network error, got %v", err)
	}
	if len(result.Translations) != 1 || result.Translations[0] != "" {
		t.Errorf("expected [\"\"], got %q", result.Translations)
	}
	if !hasErrorEntry(hook) {
		t.Error("expected an error log entry")
	}
}

func TestClient_Translate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(echoHandler(t))
	defer server.Close()

	c, _ := newTestClient(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Translate(ctx, TranslateRequest{
		Text: "Hello", SourceLang: "eng_Latn", TargetLang: "kan_Knda", UseLocalhost: true,
	})
	if KindOf(err) != KindNetwork {
		t.Errorf("expected network error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestClient_Translate_InvalidBaseURL(t *testing.T) {
	logger, _ := test.NewNullLogger()
	resolver := endpoint.NewResolver("not a url", "", logger)
	c := NewClient(resolver, ServiceConfig{}, logger)

	result, err := c.Translate(context.Background(), TranslateRequest{
		Text: "Hello", SourceLang: "eng_Latn", TargetLang: "kan_Knda", UseLocalhost: true,
	})
	if KindOf(err) != KindRequest {
		t.Errorf("expected request error, got %v", err)
	}
	if result.Text() != "" {
		t.Errorf("expected empty text, got %q", result.Text())
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil, ServiceConfig{}, nil)

	if c.client.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", c.client.Timeout)
	}
	if c.chunkWords != 15 {
		t.Errorf("expected 15 chunk words, got %d", c.chunkWords)
	}
}

func TestBuildURL_EscapesQuery(t *testing.T) {
	got, err := buildURL("http://localhost:7860/", "a&b", "c d", "cpu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "http://localhost:7860/translate?device_type=cpu&src_lang=a%26b&tgt_lang=c+d"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestResult_Text_Nil(t *testing.T) {
	var r *Result
	if r.Text() != "" {
		t.Error("expected empty text for nil result")
	}
}
