package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coinbase/netcdf-go/pkg/netcdf"
)

func (a *app) stressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run concurrent create, write and verify cycles and report gate statistics.",
		Long: `stress starts --workers goroutines. Each one repeatedly creates a file,
writes --size doubles, closes it, reopens it and checks the data. The gate
counters accumulated during the run are printed at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.GetString("dir")
			if dir == "" {
				tmp, err := os.MkdirTemp("", "ncgo-stress-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(tmp)
				dir = tmp
			}
			workers := a.cfg.GetInt("workers")
			iterations := a.cfg.GetInt("iterations")
			size := a.cfg.GetInt("size")
			if workers < 1 || iterations < 1 || size < 1 {
				return fmt.Errorf("workers, iterations and size must be positive")
			}

			before := netcdf.Stats()
			start := time.Now()
			if err := stress(cmd.Context(), dir, workers, iterations, size); err != nil {
				return err
			}
			elapsed := time.Since(start)
			after := netcdf.Stats()

			calls := after.Calls - before.Calls
			fmt.Fprintf(a.out, "cycles     %d\n", workers*iterations)
			fmt.Fprintf(a.out, "elapsed    %s\n", elapsed.Round(time.Millisecond))
			fmt.Fprintf(a.out, "calls      %d\n", calls)
			fmt.Fprintf(a.out, "contended  %d\n", after.Contended-before.Contended)
			fmt.Fprintf(a.out, "wait       %s\n", after.Wait-before.Wait)
			fmt.Fprintf(a.out, "held       %s\n", after.Held-before.Held)
			a.log.WithField("calls", calls).WithField("elapsed", elapsed).Info("stress finished")
			return nil
		},
	}
}

// stress runs the worker cycles and returns the first failure.
func stress(ctx context.Context, dir string, workers, iterations, size int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			path := filepath.Join(dir, fmt.Sprintf("worker-%03d.nc", w))
			for i := 0; i < iterations; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := cycle(path, float64(w*iterations+i), size); err != nil {
					return fmt.Errorf("worker %d, cycle %d: %w", w, i, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// cycle writes size doubles starting at base to a fresh file at path and
// reads them back.
func cycle(path string, base float64, size int) error {
	want := make([]float64, size)
	for i := range want {
		want[i] = base + float64(i)
	}

	f, err := netcdf.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.AddDimension("n", size); err != nil {
		f.Close()
		return err
	}
	v, err := f.AddVariable("data", netcdf.Double, "n")
	if err != nil {
		f.Close()
		return err
	}
	if err := netcdf.PutValues(v, netcdf.All(), want); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	r, err := netcdf.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	rv, err := r.Variable("data")
	if err != nil {
		return err
	}
	got, err := netcdf.GetValues[float64](rv, netcdf.All())
	if err != nil {
		return err
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("element %d is %v, want %v", i, got[i], want[i])
		}
	}
	return nil
}
