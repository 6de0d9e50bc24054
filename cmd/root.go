package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/remat-rotor/remat-rotor/remat"
	"github.com/remat-rotor/remat-rotor/remat/graphgen"
	"github.com/remat-rotor/remat-rotor/remat/rotor"
)

var (
	// Shared flags
	logLevel    string // Log verbosity level
	graphPath   string // Path to the profiled-graph YAML
	budgetBytes int64  // Memory budget in bytes
	levels      int    // Number of budget discretization levels (M)
	backend     string // Solver backend: arena or reference

	// Sweep flags
	sweepBudgets []int64 // Candidate budgets in bytes
	findMin      bool    // Also binary-search the minimal feasible budget

	// Verify flags
	verifySeed  int64 // Seed for random case generation
	verifyCases int   // Number of random cases
	verifyNodes int   // Max nodes per random case
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "remat-rotor",
	Short: "Optimal activation-rematerialization scheduling for traced computation graphs",
}

func newSolver(name string) remat.Solver {
	switch name {
	case "arena":
		return rotor.NewArena()
	case "reference":
		return rotor.NewReference()
	default:
		logrus.Fatalf("Unknown backend %q (want arena or reference)", name)
		return nil
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func loadSequence() *remat.Sequence {
	if graphPath == "" {
		logrus.Fatalf("No graph file provided (--graph)")
	}
	cfg, err := LoadGraphConfig(graphPath)
	if err != nil {
		logrus.Fatalf("Unable to read graph config: %v", err)
	}
	seq, err := cfg.BuildSequence()
	if err != nil {
		logrus.Fatalf("Unable to build sequence: %v", err)
	}
	return seq
}

// solveCmd solves one graph under one budget and prints the schedule
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one graph under a memory budget and print the schedule",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		seq := loadSequence()
		budget := remat.Budget{Bytes: budgetBytes, Levels: levels}
		solver := newSolver(backend)

		logrus.Infof("Solving %d nodes under %d bytes (%d levels, unit=%d bytes) with %s backend",
			seq.Len(), budget.Bytes, budget.Levels, budget.Unit(), solver.Name())
		start := time.Now()
		table, err := solver.Solve(seq, budget)
		if err != nil {
			logrus.Fatalf("Solve failed: %v", err)
		}
		ops, err := remat.Materialize(table, seq)
		if err != nil {
			logrus.Fatalf("Materialize failed: %v", err)
		}

		for _, op := range ops {
			if op.Kind == remat.OpLoss {
				fmt.Println("Loss")
				continue
			}
			fmt.Printf("%-4s node=%-4d %-24s mem_delta=%d\n",
				op.Kind, op.Node, seq.Node(op.Node).Name, op.MemDelta)
		}
		fmt.Printf("total cost: %d ticks (%d operations, solved in %s)\n",
			table.Cost(budget.Levels-1, 0, seq.Len()), len(ops), time.Since(start))
	},
}

// sweepCmd prints the cost-vs-budget curve
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Solve one graph under several budgets and print the cost curve",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		seq := loadSequence()
		solver := newSolver(backend)
		ctx := context.Background()

		if len(sweepBudgets) == 0 {
			logrus.Fatalf("No candidate budgets provided (--budgets)")
		}
		points, err := remat.Sweep(ctx, solver, seq, sweepBudgets, levels)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		for _, pt := range points {
			if !pt.Feasible {
				fmt.Printf("budget=%-12d infeasible\n", pt.Budget.Bytes)
				continue
			}
			fmt.Printf("budget=%-12d cost=%d\n", pt.Budget.Bytes, pt.Cost)
		}

		if findMin {
			min, err := remat.MinimalFeasibleBudget(ctx, solver, seq, levels)
			if err != nil {
				logrus.Fatalf("Minimal budget search failed: %v", err)
			}
			fmt.Printf("minimal feasible budget: %d bytes\n", min)
		}
	},
}

// verifyCmd runs the dual-backend consistency harness
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the reference and arena backends against each other",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		ref := rotor.NewReference()
		arena := rotor.NewArena()

		cases, err := graphgen.AdversarialCases()
		if err != nil {
			logrus.Fatalf("Building adversarial cases: %v", err)
		}
		if verifyNodes < 2 {
			logrus.Fatalf("--nodes must be at least 2, got %d", verifyNodes)
		}
		rng := rand.New(rand.NewSource(verifySeed))
		for c := 0; c < verifyCases; c++ {
			n := 2 + rng.Intn(verifyNodes-1)
			seq, err := graphgen.Generate(rng, graphgen.Spec{
				Nodes: n,
				Mem:   graphgen.ExponentialSampler{Mean: 256, Min: 1},
				Fwd:   graphgen.UniformSampler{Min: 1, Max: 50},
				Bwd:   graphgen.UniformSampler{Min: 1, Max: 100},
			})
			if err != nil {
				logrus.Fatalf("Generating case %d: %v", c, err)
			}
			budget := remat.Budget{
				Bytes:  1 + rng.Int63n(seq.TotalMemBytes()),
				Levels: 2 + rng.Intn(8),
			}
			cases = append(cases, graphgen.Case{
				Name:   fmt.Sprintf("random_%d", c),
				Seq:    seq,
				Budget: budget,
			})
		}

		failed := false
		for _, tc := range cases {
			mismatches, err := remat.Compare(ref, arena, tc.Seq, tc.Budget)
			if err != nil {
				logrus.Fatalf("Case %s: %v", tc.Name, err)
			}
			if len(mismatches) == 0 {
				logrus.Infof("Case %s: backends agree", tc.Name)
				continue
			}
			failed = true
			for _, mm := range mismatches {
				fmt.Printf("case %s: %s\n", tc.Name, mm)
			}
		}
		if failed {
			logrus.Fatalf("Backend mismatch detected")
		}
		fmt.Printf("all %d cases consistent\n", len(cases))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	solveCmd.Flags().StringVar(&graphPath, "graph", "", "Path to profiled-graph YAML")
	solveCmd.Flags().Int64Var(&budgetBytes, "budget-bytes", 0, "Memory budget in bytes")
	solveCmd.Flags().IntVar(&levels, "levels", 16, "Number of budget discretization levels")
	solveCmd.Flags().StringVar(&backend, "backend", "arena", "Solver backend (arena, reference)")

	sweepCmd.Flags().StringVar(&graphPath, "graph", "", "Path to profiled-graph YAML")
	sweepCmd.Flags().Int64SliceVar(&sweepBudgets, "budgets", nil, "Comma-separated candidate budgets in bytes")
	sweepCmd.Flags().IntVar(&levels, "levels", 16, "Number of budget discretization levels")
	sweepCmd.Flags().StringVar(&backend, "backend", "arena", "Solver backend (arena, reference)")
	sweepCmd.Flags().BoolVar(&findMin, "find-min", false, "Also binary-search the minimal feasible budget")

	verifyCmd.Flags().Int64Var(&verifySeed, "seed", 42, "Seed for random case generation")
	verifyCmd.Flags().IntVar(&verifyCases, "cases", 50, "Number of random cases")
	verifyCmd.Flags().IntVar(&verifyNodes, "nodes", 16, "Maximum nodes per random case")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(verifyCmd)
}
