/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valpere/dhwani/internal/endpoint"
	"github.com/valpere/dhwani/internal/service"
	"github.com/valpere/dhwani/internal/store"
	"github.com/valpere/dhwani/internal/translator"
)

// buildService wires resolver, client and the optional history journal from
// the loaded config. The returned function closes the journal.
func buildService(withHistory bool) (*service.Service, func() error, error) {
	resolver := endpoint.NewResolver(cfg.Endpoint.LocalURL, cfg.Endpoint.RemoteURL, logger)
	client := translator.NewClient(resolver, translator.ServiceConfig{
		Timeout:    cfg.Translate.Timeout,
		ChunkWords: cfg.Translate.ChunkWords,
	}, logger)

	opts := service.Options{
		UseGPU:       cfg.Translate.UseGPU,
		UseLocalhost: cfg.Translate.UseLocalhost,
	}

	if !withHistory || !cfg.History.Enabled || cfg.History.DBPath == "" {
		return service.New(client, nil, opts, logger), func() error { return nil }, nil
	}

	db, err := openHistory()
	if err != nil {
		return nil, nil, err
	}
	return service.New(client, db, opts, logger), db.Close, nil
}

func openHistory() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.History.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(cfg.History.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
