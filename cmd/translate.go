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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	inputText  string
	inputFile  string
	outputFile string
	noHistory  bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate text through the Indic translation server",
	Long: `Translate text from one supported language to another.

Languages are given by display name, e.g. "Kannada", "English",
"Kashmiri (Arabic)". Run "dhwani languages" for the full list.

Examples:
  dhwani translate --text "ನಮಸ್ಕಾರ" --target English
  dhwani translate -i story.txt -o story.en.txt --localhost --gpu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (inputText == "") == (inputFile == "") {
			return fmt.Errorf("exactly one of --text or --input is required")
		}
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text := inputText
		if inputFile != "" {
			data, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = string(data)
		}

		svc, closeDB, err := buildService(!noHistory)
		if err != nil {
			return err
		}
		defer closeDB()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		source, target := cfg.Translate.SourceLanguage, cfg.Translate.TargetLanguage
		result, err := svc.Translate(ctx, text, source, target)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Translated %s to %s (%d chunks, %s, %s)\n",
			source, target, result.Chunks, result.DeviceType, result.Latency.Round(time.Millisecond))

		if outputFile == "" {
			fmt.Println(result.Text())
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		out := result.Text()
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if err := os.WriteFile(outputFile, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Successfully translated %s to %s\n", source, target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&inputText, "text", "", "Text to translate")
	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	translateCmd.Flags().StringP("source", "s", "Kannada", "Source language name")
	translateCmd.Flags().StringP("target", "t", "English", "Target language name")
	translateCmd.Flags().Bool("gpu", false, "Ask the server to run on CUDA")
	translateCmd.Flags().Bool("localhost", false, "Use the local translation server")
	translateCmd.Flags().Int("chunk-words", 15, "Words per chunk")
	translateCmd.Flags().Duration("timeout", 30*time.Second, "HTTP timeout")
	translateCmd.Flags().String("db", "./data/dhwani.db", "Database path for translation history")
	translateCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this translation")

	bindFlag(translateCmd, "source", "translate.source_language")
	bindFlag(translateCmd, "target", "translate.target_language")
	bindFlag(translateCmd, "gpu", "translate.use_gpu")
	bindFlag(translateCmd, "localhost", "translate.use_localhost")
	bindFlag(translateCmd, "chunk-words", "translate.chunk_words")
	bindFlag(translateCmd, "timeout", "translate.timeout")
	bindFlag(translateCmd, "db", "history.db_path")
}
