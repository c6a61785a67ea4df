package main

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/trackswift/internal/service"

	"github.com/spf13/cobra"
)

const defaultSeedCount = 25

func newSeedCmd(root *rootOptions) *cobra.Command {
	var (
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all parcels with generated demo data",
		Long: `Clears every pending change request and replaces the parcel collection
with generated demo parcels. Records are written in the legacy shape so the
store migration back-fills sender and receiver names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			ctx := cmd.Context()
			store, err := root.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			rng := rand.New(rand.NewPCG(seed, seed))
			parcels := service.GenerateDemoParcels(rng, count)
			parcelService := service.NewParcelService(store.Parcels, store.ChangeRequests, &sync.Mutex{})
			if err := parcelService.ReplaceAll(ctx, parcels); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d parcels into %s store (seed %d)\n", len(parcels), store.Driver, seed)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", defaultSeedCount, "number of parcels to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: current time)")
	return cmd
}
