package translator

import (
	"time"
)

type ServiceConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout"`
	ChunkWords int           `mapstructure:"chunk_words" json:"chunk_words"`
}

type TranslateRequest struct {
	Text         string `json:"text"`
	SourceLang   string `json:"source_lang"`
	TargetLang   string `json:"target_lang"`
	UseGPU       bool   `json:"use_gpu"`
	UseLocalhost bool   `json:"use_localhost"`
}

// Result always carries one entry in Translations: the merged text on
// success, "" on failure.
type Result struct {
	Translations []string      `json:"translations"`
	Chunks       int           `json:"chunks"`
	DeviceType   string        `json:"device_type"`
	Endpoint     string        `json:"endpoint"`
	Latency      time.Duration `json:"latency"`
	Error        string        `json:"error,omitempty"`
}

// Text returns the merged translation.
func (r *Result) Text() string {
	if r == nil || len(r.Translations) == 0 {
		return ""
	}
	return r.Translations[0]
}

// batchRequest is the POST body understood by the backend's /translate route.
type batchRequest struct {
	Sentences []string `json:"sentences"`
	SrcLang   string   `json:"src_lang"`
	TgtLang   string   `json:"tgt_lang"`
}

type batchResponse struct {
	Translations []string `json:"translations"`
}
