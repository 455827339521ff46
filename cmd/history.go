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

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(auditCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history KEY",
	Short: "Show the version history of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.GetConfigByKey(ctx, args[0])
		if err != nil {
			return err
		}
		versions, err := store.GetVersions(ctx, entry.ID)
		if err != nil {
			return err
		}

		for _, v := range versions {
			val, err := json.Marshal(v.Value)
			if err != nil {
				return err
			}
			fmt.Printf("v%d\t%s\t%s\t%s\n", v.VersionNumber, v.CreatedAt.Format("2006-01-02 15:04:05"), v.Key, val)
		}
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit KEY",
	Short: "Show the audit trail of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.GetConfigByKey(ctx, args[0])
		if err != nil {
			return err
		}
		audits, err := store.GetAuditsByConfigID(ctx, entry.ID)
		if err != nil {
			return err
		}

		for _, a := range audits {
			oldV, err := json.Marshal(a.OldValue)
			if err != nil {
				return err
			}
			newV, err := json.Marshal(a.NewValue)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\tuser=%d\t%s -> %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"), a.Action, a.UserID, oldV, newV)
		}
		return nil
	},
}
