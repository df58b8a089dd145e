package internal

import "time"

type TranslationRequest struct {
	ID         string    `json:"id"`
	SourceText string    `json:"source_text"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	DeviceType string    `json:"device_type"`
	Endpoint   string    `json:"endpoint"`
	Timestamp  time.Time `json:"timestamp"`
}

type TranslationOutcome struct {
	RequestID      string        `json:"request_id"`
	TranslatedText string        `json:"translated_text"`
	Chunks         int           `json:"chunks"`
	Latency        time.Duration `json:"latency"`
	ErrorKind      string        `json:"error_kind,omitempty"`
	Error          string        `json:"error,omitempty"`
}
