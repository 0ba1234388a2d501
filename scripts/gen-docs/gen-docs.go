// statusboard
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package main

//go:generate go run gen-docs.go --path ../../docs

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	statusboardcmd "github.com/caas-team/statusboard/cmd"
)

func main() {
	var docPath string

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generates the cli docs for statusboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			root := statusboardcmd.BuildCmd("")
			root.DisableAutoGenTag = true
			return doc.GenMarkdownTree(root, docPath)
		},
	}
	cmd.Flags().StringVar(&docPath, "path", "docs", "directory path where the markdown files will be created")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
