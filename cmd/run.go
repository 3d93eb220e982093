/*
Copyright © 2025 SilverJiang

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
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Jiangshanshi5/TranslateMode/internal/config"
	"github.com/Jiangshanshi5/TranslateMode/internal/dbx"
	"github.com/Jiangshanshi5/TranslateMode/internal/translator"
	"github.com/Jiangshanshi5/TranslateMode/internal/updater"
)

var (
	configPath     string
	selectionsPath string
	runTargetLang  string
	runPageSize    int
	noProgress     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Translate the selected columns",
	Long: `Translate every column listed in the selections document.

For each (table, column) pair the destination column <column>_<lang> is
created if missing, rows whose destination is still empty are fetched in
pages, translated (HTML-aware for markup values) and written back, one
transaction per page. Rows that fail to translate are left untouched and
remain pending for the next run.

The final per-column {total, ok, fail} summary is printed as JSON on stdout;
per-row diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if runTargetLang != "" {
			cfg.TargetLang = runTargetLang
		}
		if runPageSize > 0 {
			cfg.PageSize = runPageSize
		}

		if _, err := language.Parse(cfg.TargetLang); err != nil {
			return fmt.Errorf("invalid target language %q: %w", cfg.TargetLang, err)
		}

		selections, found, err := config.LoadSelections(selectionsPath)
		if err != nil {
			return err
		}
		if !found {
			if err := config.SaveSelections(selectionsPath, config.Selections{}); err != nil {
				return fmt.Errorf("failed to write %s: %w", selectionsPath, err)
			}
			return fmt.Errorf(`no selections found; wrote an empty %s — fill it with {"table": ["column", ...]} entries (see "translatemode columns")`, selectionsPath)
		}

		svc, err := buildTranslator(cfg)
		if err != nil {
			return err
		}

		db, err := dbx.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		runID := uuid.New().String()
		fmt.Fprintf(os.Stderr, "run %s: translating to %s via %s\n", runID, cfg.TargetLang, svc.Name())

		u := updater.New(db, svc, updater.Options{
			Schema:          cfg.Schema,
			TargetLang:      cfg.TargetLang,
			PageSize:        cfg.PageSize,
			OverwriteSource: cfg.OverwriteSource,
			Progress:        newProgress(noProgress),
		})

		summary, runErr := u.Run(ctx, selections)

		if out, err := json.MarshalIndent(summary, "", "  "); err == nil {
			fmt.Println(string(out))
		}
		return runErr
	},
}

// newProgress returns the per-page progress callback: a progress bar per
// column, or plain stderr lines when plain is set.
func newProgress(plain bool) func(table, column string, done, total int) {
	if plain {
		return func(table, column string, done, total int) {
			fmt.Fprintf(os.Stderr, "%s.%s: processed %d/%d rows\n", table, column, done, total)
		}
	}

	var bar *progressbar.ProgressBar
	var current string
	return func(table, column string, done, total int) {
		key := table + "." + column
		if bar == nil || current != key {
			current = key
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription(key),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
			)
		}
		_ = bar.Set(done)
	}
}

func buildTranslator(cfg *config.Config) (translator.Batcher, error) {
	switch cfg.Provider {
	case "", "microsoft":
		if cfg.APIKey == "" || cfg.APIRegion == "" {
			return nil, fmt.Errorf("microsoft provider requires api_key and api_region")
		}
		return translator.NewMicrosoft(cfg.APIKey, cfg.APIRegion, cfg.Endpoint, cfg.MaxRetries), nil
	case "google":
		return translator.NewGoogle(cfg.Credentials), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")
	runCmd.Flags().StringVar(&selectionsPath, "selections", "selections.json", "Path to the selections document")
	runCmd.Flags().StringVarP(&runTargetLang, "target", "t", "", "Target language code (overrides config)")
	runCmd.Flags().IntVar(&runPageSize, "page-size", 0, "Rows per page (overrides config)")
	runCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Print plain progress lines instead of a progress bar")
}
