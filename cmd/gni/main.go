package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geonum/gni/internal/config"
	"github.com/geonum/gni/internal/driver"
	"github.com/geonum/gni/internal/harness"
	"github.com/geonum/gni/internal/phase"
)

var (
	configFile string
	horizon    float64
	dts        []float64
	workers    int
	substeps   int
	plots      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gni",
		Short: "geometric numerical integration lab",
		Long:  "Build splitting integrators from coefficient schemes and compare their drift, error, and convergence order.",
	}

	compareCmd := &cobra.Command{
		Use:   "compare [problem]",
		Short: "run a comparison sweep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompare,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "yaml sweep file")
	compareCmd.Flags().Float64Var(&horizon, "horizon", 0, "integration horizon (overrides config)")
	compareCmd.Flags().Float64SliceVar(&dts, "dt", nil, "step sizes (overrides config)")
	compareCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")
	compareCmd.Flags().IntVar(&substeps, "substeps", 0, "fallback flow sub-steps")
	compareCmd.Flags().BoolVar(&plots, "plots", true, "render drift sparklines")

	checkCmd := &cobra.Command{
		Use:   "check [problem]",
		Short: "verify that a problem's parts sum to the whole field",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list registered problems",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.NewRegistry().Problems() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(compareCmd, checkCmd, problemsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(args []string) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Problem = args[0]
	}
	if horizon > 0 {
		cfg.Horizon = horizon
	}
	if len(dts) > 0 {
		cfg.Dts = dts
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if substeps > 0 {
		cfg.FallbackSubsteps = substeps
	}
	return cfg, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	reg := config.NewRegistry()
	prob, err := reg.Problem(cfg.Problem)
	if err != nil {
		return err
	}

	x0 := prob.X0
	if len(cfg.InitState) > 0 {
		x0 = phase.State(cfg.InitState).Clone()
	}

	cands := make([]harness.Candidate, 0, len(cfg.Candidates))
	for _, spec := range cfg.Candidates {
		cand, err := reg.Candidate(spec, prob, cfg.FallbackSubsteps)
		if err != nil {
			return fmt.Errorf("candidate %q: %w", spec.Label, err)
		}
		cands = append(cands, cand)
	}

	hcfg := harness.Config{
		T0:         cfg.T0,
		Horizon:    cfg.Horizon,
		Dts:        cfg.Dts,
		Tolerances: cfg.Tolerances,
		Invariants: prob.Invariants,
		Reference:  prob.Reference,
		Workers:    cfg.Workers,
	}
	if cfg.Adaptive {
		hcfg.Policy = driver.Policy{
			Adaptive:  true,
			InitialDt: firstOr(cfg.Dts, 0.01),
			MinDt:     cfg.MinDt,
			MaxDt:     cfg.MaxDt,
		}
	}

	rep, err := harness.Compare(cands, x0, hcfg)
	if err != nil {
		return err
	}

	printReport(os.Stdout, cfg.Problem, rep, plots)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	prob, err := config.NewRegistry().Problem(args[0])
	if err != nil {
		return err
	}
	samples := []phase.State{prob.X0}
	for _, s := range []float64{0.5, -1.3, 2.7} {
		samples = append(samples, prob.X0.Scale(s))
	}
	if err := phase.CheckSplit(prob.Field, samples, nil, 1e-12); err != nil {
		return err
	}
	fmt.Printf("%s: %d parts sum to the whole field on %d samples\n",
		args[0], len(prob.Field.Parts()), len(samples))
	return nil
}

func firstOr(vals []float64, fallback float64) float64 {
	if len(vals) > 0 {
		return vals[0]
	}
	return fallback
}
