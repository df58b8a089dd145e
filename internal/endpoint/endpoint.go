// Package endpoint resolves the base URL of the Indic speech/translation
// backend for a given deployment mode.
package endpoint

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultLocalURL is used when talking to a backend started on this machine.
	DefaultLocalURL = "http://localhost:7860"
	// DefaultRemoteURL is the hosted backend.
	DefaultRemoteURL = "https://gaganyatri-translate-indic-server-cpu.hf.space"
)

// ServiceType tags which backend service a URL is requested for.
type ServiceType string

const (
	ServiceASR       ServiceType = "asr"
	ServiceTranslate ServiceType = "translate"
	ServiceTTS       ServiceType = "tts"
)

// Known reports whether s is one of the services the backend exposes.
func (s ServiceType) Known() bool {
	switch s {
	case ServiceASR, ServiceTranslate, ServiceTTS:
		return true
	}
	return false
}

// DeviceType returns the device_type query value sent to the backend.
func DeviceType(useGPU bool) string {
	if useGPU {
		return "cuda"
	}
	return "cpu"
}

// Resolver picks between a local and a remote backend. All services share one
// base URL per mode; the backend routes by path.
type Resolver struct {
	localURL  string
	remoteURL string
	logger    *logrus.Logger
}

// NewResolver creates a Resolver. Empty URLs fall back to the defaults.
func NewResolver(localURL, remoteURL string, logger *logrus.Logger) *Resolver {
	if localURL == "" {
		localURL = DefaultLocalURL
	}
	if remoteURL == "" {
		remoteURL = DefaultRemoteURL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Resolver{
		localURL:  strings.TrimRight(localURL, "/"),
		remoteURL: strings.TrimRight(remoteURL, "/"),
		logger:    logger,
	}
}

// Resolve returns the base URL for svc. Only useLocalhost changes the result;
// the GPU flag is carried in the request's device_type instead.
func (r *Resolver) Resolve(useGPU, useLocalhost bool, svc ServiceType) string {
	fields := logrus.Fields{
		"service":       svc,
		"use_gpu":       useGPU,
		"use_localhost": useLocalhost,
	}
	r.logger.WithFields(fields).Info("Resolving endpoint")

	if !svc.Known() {
		r.logger.WithFields(fields).Warn("Unknown service type, using shared base URL")
	}

	baseURL := r.remoteURL
	if useLocalhost {
		baseURL = r.localURL
	}

	r.logger.WithFields(logrus.Fields{
		"service":  svc,
		"base_url": baseURL,
	}).Info("Endpoint resolved")

	return baseURL
}
