// Package server serves the translation form, a small JSON API, health and
// Prometheus metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/valpere/dhwani/internal/lang"
	"github.com/valpere/dhwani/internal/translator"
)

// maxBodyBytes bounds form and JSON request bodies.
const maxBodyBytes = 1 << 20

// Translator is satisfied by *service.Service.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (*translator.Result, error)
}

type Options struct {
	Addr string
	// Source is the fixed source language display name.
	Source string
	// Target is the preselected target language display name.
	Target string
}

type HTTPServer struct {
	translator Translator
	opts       Options
	logger     *logrus.Logger
	page       *template.Template
}

func NewHTTPServer(t Translator, opts Options, logger *logrus.Logger) *HTTPServer {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.Source == "" {
		opts.Source = lang.DefaultSource
	}
	if opts.Target == "" {
		opts.Target = lang.DefaultTarget
	}
	return &HTTPServer{
		translator: t,
		opts:       opts,
		logger:     logger,
		page:       template.Must(template.New("form").Parse(formHTML)),
	}
}

// Handler returns the route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleForm)
	mux.HandleFunc("/api/v1/translate", s.handleTranslate)
	mux.HandleFunc("/api/v1/languages", s.handleLanguages)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":   s.opts.Addr,
			"source": s.opts.Source,
			"target": s.opts.Target,
		}).Info("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type formView struct {
	Source    string
	Target    string
	Languages []string
	Text      string
	Output    string
	Error     string
}

func (s *HTTPServer) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	view := formView{
		Source:    s.opts.Source,
		Target:    s.opts.Target,
		Languages: lang.Names(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		view.Text = r.PostFormValue("text")
		if target := strings.TrimSpace(r.PostFormValue("target")); target != "" {
			view.Target = target
		}

		result, err := s.translator.Translate(r.Context(), view.Text, view.Source, view.Target)
		switch {
		case errors.Is(err, lang.ErrUnknownLanguage):
			w.WriteHeader(http.StatusBadRequest)
			view.Error = err.Error()
		case err != nil:
			w.WriteHeader(http.StatusBadGateway)
			view.Error = "Translation failed: " + err.Error()
		default:
			view.Output = result.Text()
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.page.Execute(w, view); err != nil {
		s.logger.WithError(err).Error("Failed to render form")
	}
}

type translateBody struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateReply struct {
	Translations []string `json:"translations"`
	Chunks       int      `json:"chunks,omitempty"`
	DeviceType   string   `json:"device_type,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func (s *HTTPServer) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body translateBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if body.Source == "" {
		body.Source = s.opts.Source
	}
	if body.Target == "" {
		body.Target = s.opts.Target
	}

	result, err := s.translator.Translate(r.Context(), body.Text, body.Source, body.Target)
	switch {
	case errors.Is(err, lang.ErrUnknownLanguage):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case err != nil:
		s.writeJSON(w, http.StatusBadGateway, translateReply{Translations: []string{""}, Error: err.Error()})
	default:
		s.writeJSON(w, http.StatusOK, translateReply{
			Translations: result.Translations,
			Chunks:       result.Chunks,
			DeviceType:   result.DeviceType,
		})
	}
}

func (s *HTTPServer) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, lang.All())
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

const formHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Dhwani Translate</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
textarea { width: 100%; min-height: 8rem; }
.error { color: #b00020; }
</style>
</head>
<body>
<h1>Indic Translation</h1>
<form method="post" action="/">
  <p>
    <label>Source language
      <select name="source" disabled><option selected>{{.Source}}</option></select>
    </label>
    <label>Target language
      <select name="target">
        {{- range .Languages}}
        <option{{if eq . $.Target}} selected{{end}}>{{.}}</option>
        {{- end}}
      </select>
    </label>
  </p>
  <p><label>Text<br><textarea name="text">{{.Text}}</textarea></label></p>
  <p><button type="submit">Translate</button></p>
</form>
{{- if .Error}}
<p class="error" role="alert">{{.Error}}</p>
{{- end}}
<p><label>Translation<br><textarea readonly>{{.Output}}</textarea></label></p>
</body>
</html>
`
