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
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	setCategory  string
	setUserID    int64
	setNoVersion bool
	setNoAudit   bool
	setJSONValue bool
)

func init() {
	setCmd.Flags().StringVar(&setCategory, "category", "", "Category tag (system, application, security, performance)")
	setCmd.Flags().Int64Var(&setUserID, "user", 0, "Acting user id for audit attribution (0 = none)")
	setCmd.Flags().BoolVar(&setNoVersion, "no-version", false, "Skip recording a version snapshot")
	setCmd.Flags().BoolVar(&setNoAudit, "no-audit", false, "Skip recording an audit row")
	setCmd.Flags().BoolVar(&setJSONValue, "json", false, "Parse VALUE as JSON instead of a plain string")
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Create or update a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		mgr, _, cleanup, err := newManager(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		var value any = args[1]
		if setJSONValue {
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				return err
			}
		}

		if err := mgr.Set(ctx, args[0], value, setCategory, setUserID, !setNoVersion, !setNoAudit); err != nil {
			return err
		}
		slog.Info("configuration updated", "key", args[0])
		return nil
	},
}
