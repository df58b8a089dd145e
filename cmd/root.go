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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/dhwani/internal/config"
	"github.com/valpere/dhwani/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile  string
	logFile  string
	logLevel string

	v        *viper.Viper
	cfg      *config.Config
	logger   *logrus.Logger
	closeLog func() error
)

// flagBinding ties a command flag to a config key.
type flagBinding struct {
	cmd  *cobra.Command
	flag string
	key  string
}

var bindings []flagBinding

func bindFlag(cmd *cobra.Command, flag, key string) {
	bindings = append(bindings, flagBinding{cmd: cmd, flag: flag, key: key})
}

var rootCmd = &cobra.Command{
	Use:   "dhwani",
	Short: "CLI client for the Indic translation server",
	Long: `A CLI application that translates text between English and Indian languages
through an IndicTrans-style translation server.

Long input is split into 15-word chunks and sent as one batch request;
the translated chunks are merged back into a single text.

Use "dhwani translate --help" for translation options.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v = config.New(cfgFile)
		for _, b := range bindings {
			if !isAncestor(b.cmd, cmd) {
				continue
			}
			f := b.cmd.PersistentFlags().Lookup(b.flag)
			if f == nil {
				f = b.cmd.Flags().Lookup(b.flag)
			}
			if f == nil {
				continue
			}
			if err := v.BindPFlag(b.key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", b.flag, err)
			}
		}

		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}

		logger, closeLog, err = logging.New(logging.Options{
			File:   cfg.Log.File,
			Level:  cfg.Log.Level,
			Stderr: cfg.Log.Stderr,
		})
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"command": cmd.CommandPath(),
			"config":  v.ConfigFileUsed(),
		}).Debug("Configuration loaded")
		return nil
	},
}

// isAncestor reports whether parent is cmd or one of its parents.
func isAncestor(parent, cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == parent {
			return true
		}
	}
	return false
}

func Execute() {
	err := rootCmd.Execute()
	if closeLog != nil {
		closeLog()
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./dhwani.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "execution.log", "Append-only log file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	bindFlag(rootCmd, "log-file", "log.file")
	bindFlag(rootCmd, "log-level", "log.level")
}
