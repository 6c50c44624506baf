/*
Copyright © 2025 Your Name

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
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"anchorwriter/internal/config"
	"anchorwriter/internal/logger"
)

var (
	cfgFile  string
	logLevel string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "anchorwriter",
		Short: "anchorwriter generates anchor-link articles from spreadsheet rows.",
		Long: `anchorwriter reads rows from a Google Sheet (or a local .xlsx workbook),
asks Gemini for an SEO title and article around each row's anchor word,
publishes the article as a Google Doc and writes the document URL back
into the row.

Examples:
  anchorwriter run --sheet SHEET_ID --tab "Links"
  anchorwriter tabs --sheet SHEET_ID --pick
  anchorwriter title validate "Como Jogar Aviator Online com Segurança" --anchor aviator
  anchorwriter dedup articles.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.anchorwriter.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewTabsCmd())
	rootCmd.AddCommand(NewHeaderCmd())
	rootCmd.AddCommand(NewTitleCmd())
	rootCmd.AddCommand(NewDedupCmd())
	rootCmd.AddCommand(NewFeedbackCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables and configures logging.
func initConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger.Configure(logger.Options{Level: level, Format: cfg.Logging.Format})
	return nil
}
