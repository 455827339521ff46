// Copyright (C) 2025-2026 Ultraconf Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration entries",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		mgr, _, cleanup, err := newManager(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		all := mgr.All(ctx)
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			e := all[k]
			v, err := json.Marshal(e.Value)
			if err != nil {
				return err
			}
			if e.Category != "" {
				fmt.Printf("%s\t%s\t[%s]\n", k, v, e.Category)
			} else {
				fmt.Printf("%s\t%s\n", k, v)
			}
		}
		return nil
	},
}
