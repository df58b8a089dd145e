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
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valpere/dhwani/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the translation web form",
	Long: `Serve a web form and JSON API on top of the translation client.

Routes:
  GET/POST /               translation form
  POST     /api/v1/translate
  GET      /api/v1/languages
  GET      /health
  GET      /metrics        Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := buildService(true)
		if err != nil {
			return err
		}
		defer closeDB()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.NewHTTPServer(svc, server.Options{
			Addr:   cfg.Server.Addr,
			Source: cfg.Translate.SourceLanguage,
			Target: cfg.Translate.TargetLanguage,
		}, logger)
		return srv.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":7861", "Listen address")
	serveCmd.Flags().Bool("gpu", false, "Ask the server to run on CUDA")
	serveCmd.Flags().Bool("localhost", false, "Use the local translation server")

	bindFlag(serveCmd, "addr", "server.addr")
	bindFlag(serveCmd, "gpu", "translate.use_gpu")
	bindFlag(serveCmd, "localhost", "translate.use_localhost")
}
