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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Jiangshanshi5/TranslateMode/internal/config"
	"github.com/Jiangshanshi5/TranslateMode/internal/dbx"
)

var columnsConfigPath string

var columnsCmd = &cobra.Command{
	Use:   "columns [table-pattern]",
	Short: "List tables and their columns",
	Long: `List tables whose names start with the given pattern (all tables when
omitted), together with each column's data type and primary-key marker.
Use the output to compose the selections document for "translatemode run".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(columnsConfigPath)
		if err != nil {
			return err
		}

		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
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

		tables, err := db.Tables(ctx, cfg.Schema, pattern)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
		if len(tables) == 0 {
			fmt.Println("No matching tables.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TABLE\tCOLUMN\tTYPE\tKEY")
		for _, table := range tables {
			cols, err := db.Columns(ctx, cfg.Schema, table)
			if err != nil {
				return fmt.Errorf("failed to list columns of %s: %w", table, err)
			}
			for _, c := range cols {
				key := ""
				if c.PrimaryKey {
					key = "PK"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", table, c.Name, c.DataType, key)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)

	columnsCmd.Flags().StringVarP(&columnsConfigPath, "config", "c", "config.yaml", "Path to the configuration file")
}
