package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valpere/dhwani/internal/chunker"
	"github.com/valpere/dhwani/internal/endpoint"
)

const (
	// DefaultTimeout bounds a single POST to the backend.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 512
)

// Client posts word-chunked text to the backend's /translate route and merges
// the per-chunk translations. It holds no per-call state.
type Client struct {
	resolver   *endpoint.Resolver
	client     *http.Client
	chunkWords int
	logger     *logrus.Logger
}

func NewClient(resolver *endpoint.Resolver, cfg ServiceConfig, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	if resolver == nil {
		resolver = endpoint.NewResolver("", "", logger)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	chunkWords := cfg.ChunkWords
	if chunkWords <= 0 {
		chunkWords = chunker.DefaultChunkWords
	}
	return &Client{
		resolver:   resolver,
		client:     &http.Client{Timeout: timeout},
		chunkWords: chunkWords,
		logger:     logger,
	}
}

// Translate sends req.Text in one batched request. On any failure the result
// still holds a single "" translation, and the returned error is a
// *RequestError.
func (c *Client) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	result := &Result{
		Translations: []string{""},
		DeviceType:   endpoint.DeviceType(req.UseGPU),
	}
	start := time.Now()
	var kind ErrorKind
	defer func() {
		result.Latency = time.Since(start)
		recordRequest(result.DeviceType, kind, result.Latency, result.Chunks, len(req.Text))
	}()

	log := c.logger.WithFields(logrus.Fields{
		"src_lang":      req.SourceLang,
		"tgt_lang":      req.TargetLang,
		"use_gpu":       req.UseGPU,
		"use_localhost": req.UseLocalhost,
	})
	log.WithFields(logrus.Fields{
		"text_length": len(req.Text),
		"words":       chunker.WordCount(req.Text),
	}).Info("Translating text")
	log.WithField("text", req.Text).Debug("Translation input")

	fail := func(err *RequestError) (*Result, error) {
		kind = err.Kind
		result.Translations = []string{""}
		result.Error = err.Error()
		log.WithError(err).WithFields(logrus.Fields{
			"kind":     err.Kind,
			"endpoint": result.Endpoint,
		}).Error("Translation failed")
		return result, err
	}

	baseURL := c.resolver.Resolve(req.UseGPU, req.UseLocalhost, endpoint.ServiceTranslate)
	apiURL, err := buildURL(baseURL, req.SourceLang, req.TargetLang, result.DeviceType)
	if err != nil {
		return fail(&RequestError{Kind: KindRequest, Err: err})
	}
	result.Endpoint = apiURL

	chunks := chunker.ChunkWords(req.Text, c.chunkWords)
	result.Chunks = len(chunks)

	body, err := json.Marshal(batchRequest{
		Sentences: chunks,
		SrcLang:   req.SourceLang,
		TgtLang:   req.TargetLang,
	})
	if err != nil {
		return fail(&RequestError{Kind: KindRequest, Err: fmt.Errorf("encode request: %w", err)})
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fail(&RequestError{Kind: KindRequest, Err: fmt.Errorf("create request: %w", err)})
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fail(&RequestError{Kind: KindNetwork, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(&RequestError{
			Kind:       KindBackend,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		})
	}

	var decoded batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fail(&RequestError{Kind: KindParse, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)})
	}

	result.Translations = []string{chunker.Merge(decoded.Translations)}

	log.WithFields(logrus.Fields{
		"status_code":  resp.StatusCode,
		"chunks":       result.Chunks,
		"translations": len(decoded.Translations),
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("Translation successful")

	return result, nil
}

// buildURL returns {baseURL}/translate with the language pair and device type
// as query parameters.
func buildURL(baseURL, srcLang, tgtLang, deviceType string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/translate")
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing scheme or host", baseURL)
	}
	q := u.Query()
	q.Set("src_lang", srcLang)
	q.Set("tgt_lang", tgtLang)
	q.Set("device_type", deviceType)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
