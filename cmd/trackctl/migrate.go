package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade stored parcels to the current record version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := root.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			parcels, err := store.Parcels.List(ctx)
			if err != nil {
				return err
			}
			requests, err := store.ChangeRequests.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store is up to date: %d parcels, %d pending change requests\n", store.Driver, len(parcels), requests)
			return nil
		},
	}
}
