package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdp-sim/pdp-sim/sim/scenario"
)

// batchCmd runs several scenario files concurrently, one runtime per run.
var batchCmd = &cobra.Command{
	Use:   "batch <scenario.yaml>...",
	Short: "Run several scenarios concurrently and print each report",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		results, err := runBatch(cmd.Context(), args, parallel)
		if err != nil {
			logrus.Fatalf("Batch failed: %v", err)
		}
		out := cmd.OutOrStdout()
		for i, res := range results {
			fmt.Fprintf(out, "=== %s (%s) ===\n", res.Name, args[i])
			fmt.Fprintln(out, res.Snapshot.ToText())
			if res.Rejected > 0 {
				fmt.Fprintf(out, "rejected events:\t\t%d\n", res.Rejected)
			}
		}
	},
}

// runBatch loads and runs every path with at most limit runs in flight.
// Results are in path order. The first failure cancels runs not yet started.
func runBatch(ctx context.Context, paths []string, limit int) ([]runResult, error) {
	if limit < 1 {
		return nil, fmt.Errorf("parallel must be at least 1, got %d", limit)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]runResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			f, err := scenario.Load(path)
			if err != nil {
				return err
			}
			if f.Name == "" {
				f.Name = path
			}
			res, err := runScenario(f)
			if err != nil {
				return err
			}
			results[i] = res
			logrus.Infof("Finished %s: %d/%d delivered", path, res.Snapshot.TotalDeliveries, res.Snapshot.AddedParcels)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
