package main

import (
	"fmt"
	"math"
	"reflect"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/coinbase/netcdf-go/pkg/netcdf"
)

// summary holds the statistics stat prints for one variable.
type summary struct {
	Count, Skipped int
	Min, Max       float64
	Mean, StdDev   float64
}

func (a *app) statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat FILE VAR...",
		Short: "Print summary statistics of numeric variables.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VARIABLE\tCOUNT\tSKIPPED\tMIN\tMAX\tMEAN\tSTDDEV")
			for _, name := range args[1:] {
				v, err := f.Variable(name)
				if err != nil {
					return err
				}
				s, err := summarize(v, a.cfg.GetBool("skip-fill"))
				if err != nil {
					return err
				}
				a.log.WithField("var", name).WithField("count", s.Count).Debug("summarized")
				fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%g\t%g\n",
					name, s.Count, s.Skipped, s.Min, s.Max, s.Mean, s.StdDev)
			}
			return w.Flush()
		},
	}
}

// summarize reads all of v and computes its statistics. NaN elements are
// always skipped; fill values are skipped when skipFill is set.
func summarize(v *netcdf.Variable, skipFill bool) (summary, error) {
	data, err := v.Read(netcdf.All())
	if err != nil {
		return summary{}, err
	}
	if v.Type() == netcdf.Char || v.Type() == netcdf.String {
		return summary{}, fmt.Errorf("variable %q has type %s: %w", v.Name(), v.Type(), netcdf.ErrTypeMismatch)
	}
	xs, ok := netcdf.Float64s(data)
	if !ok {
		return summary{}, fmt.Errorf("variable %q has type %s: %w", v.Name(), v.Type(), netcdf.ErrTypeMismatch)
	}

	fill, hasFill := math.NaN(), false
	if skipFill {
		fv, err := v.FillValue()
		if err != nil {
			return summary{}, err
		}
		fill, hasFill = toFloat(fv)
	}

	kept := xs[:0]
	for _, x := range xs {
		if math.IsNaN(x) || (hasFill && x == fill) {
			continue
		}
		kept = append(kept, x)
	}
	s := summary{Count: len(kept), Skipped: len(xs) - len(kept)}
	if len(kept) == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s, nil
	}
	s.Min = floats.Min(kept)
	s.Max = floats.Max(kept)
	s.Mean, s.StdDev = stat.MeanStdDev(kept, nil)
	if len(kept) == 1 {
		s.StdDev = 0
	}
	return s, nil
}

// toFloat converts a numeric scalar as returned by Variable.FillValue.
func toFloat(x any) (float64, bool) {
	if x == nil {
		return 0, false
	}
	rv := reflect.ValueOf(x)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	}
	return 0, false
}
