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

	"github.com/spf13/cobra"
)

var getDefault string

func init() {
	getCmd.Flags().StringVar(&getDefault, "default", "", "Value to print when the key is not set")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:          "get KEY",
	Short:        "Print a configuration value",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		mgr, _, cleanup, err := newManager(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		var fallback any
		if getDefault != "" {
			fallback = getDefault
		}
		// Returning the error lets the deferred cleanup run before the
		// process exits non-zero.
		value := mgr.Get(ctx, args[0], fallback, false)
		if value == nil {
			return fmt.Errorf("key %q is not set", args[0])
		}

		out, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
