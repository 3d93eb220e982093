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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "translatemode",
	Short: "Database column translation tool",
	Long: `Translates selected text/HTML columns of a relational database with a
machine-translation service, writing results into per-language sibling
columns (<column>_<lang>).

Runs are resumable: a row is pending while its destination column is empty,
so an interrupted or partially failed run can simply be restarted and only
the remaining rows are translated.

Use "translatemode columns" to inspect candidate tables and
"translatemode run" to execute the pipeline.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
