// Package service is the entry point shared by the CLI and the web form: it
// maps display names to codes, calls the translation client and journals the
// outcome.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/valpere/dhwani/internal"
	"github.com/valpere/dhwani/internal/lang"
	"github.com/valpere/dhwani/internal/translator"
)

type Translator interface {
	Translate(ctx context.Context, req translator.TranslateRequest) (*translator.Result, error)
}

// Journal records requests and outcomes. *store.Store satisfies it.
type Journal interface {
	SaveRequest(ctx context.Context, req internal.TranslationRequest) error
	SaveOutcome(ctx context.Context, out internal.TranslationOutcome) error
}

type Options struct {
	UseGPU       bool
	UseLocalhost bool
}

type Service struct {
	translator Translator
	journal    Journal
	opts       Options
	logger     *logrus.Logger
}

// New creates a Service. journal may be nil to disable history.
func New(t Translator, journal Journal, opts Options, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		translator: t,
		journal:    journal,
		opts:       opts,
		logger:     logger,
	}
}

// Translate translates text between two display names ("Kannada", "English").
// Unknown names fail with lang.ErrUnknownLanguage before any request is sent.
// Backend failures return the client's result (holding "") and its error.
func (s *Service) Translate(ctx context.Context, text, source, target string) (*translator.Result, error) {
	src, err := lang.Lookup(source)
	if err != nil {
		return nil, fmt.Errorf("source language: %w", err)
	}
	tgt, err := lang.Lookup(target)
	if err != nil {
		return nil, fmt.Errorf("target language: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"src_lang":      src.Code,
		"tgt_lang":      tgt.Code,
		"use_gpu":       s.opts.UseGPU,
		"use_localhost": s.opts.UseLocalhost,
	}).Info("Translation requested")

	started := time.Now()
	result, err := s.translator.Translate(ctx, translator.TranslateRequest{
		Text:         text,
		SourceLang:   src.Code,
		TargetLang:   tgt.Code,
		UseGPU:       s.opts.UseGPU,
		UseLocalhost: s.opts.UseLocalhost,
	})

	s.record(ctx, text, src, tgt, started, result, err)
	return result, err
}

// record journals one call. Journal failures are logged, never returned.
func (s *Service) record(ctx context.Context, text string, src, tgt lang.Language, started time.Time, result *translator.Result, callErr error) {
	if s.journal == nil || result == nil {
		return
	}

	id := uuid.New().String()
	req := internal.TranslationRequest{
		ID:         id,
		SourceText: text,
		SourceLang: src.Code,
		TargetLang: tgt.Code,
		DeviceType: result.DeviceType,
		Endpoint:   result.Endpoint,
		Timestamp:  started,
	}
	if err := s.journal.SaveRequest(ctx, req); err != nil {
		s.logger.WithError(err).WithField("request_id", id).Warn("Failed to record translation request")
		return
	}

	out := internal.TranslationOutcome{
		RequestID:      id,
		TranslatedText: result.Text(),
		Chunks:         result.Chunks,
		Latency:        result.Latency,
		Error:          result.Error,
	}
	if callErr != nil {
		out.ErrorKind = string(translator.KindOf(callErr))
		if out.ErrorKind == "" {
			out.ErrorKind = "unknown"
		}
	}
	if err := s.journal.SaveOutcome(ctx, out); err != nil {
		s.logger.WithError(err).WithField("request_id", id).Warn("Failed to record translation outcome")
	}
}
