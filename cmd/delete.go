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
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	deleteUserID    int64
	deleteNoVersion bool
)

func init() {
	deleteCmd.Flags().Int64Var(&deleteUserID, "user", 0, "Acting user id for audit attribution (0 = none)")
	deleteCmd.Flags().BoolVar(&deleteNoVersion, "no-version", false, "Skip recording a version snapshot")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete KEY",
	Short: "Soft-delete a configuration entry",
	Long:  "Mark an entry deleted. The row is kept and a later set on the same key restores it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		mgr, _, cleanup, err := newManager(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := mgr.Delete(ctx, args[0], deleteUserID, !deleteNoVersion, true); err != nil {
			return err
		}
		slog.Info("configuration entry deleted", "key", args[0])
		return nil
	},
}
