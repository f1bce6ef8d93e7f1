package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smtkit/smtkit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smtkit-demo",
	Short: "Exercise the solver bridge end to end.",
	Long: `Exercise the solver bridge end to end: incremental solving with
models and unsat cores, and quantifier elimination over linear
arithmetic.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a small arithmetic problem and print its model.",
	Run: func(cmd *cobra.Command, args []string) {
		eb := smtkit.NewFormulaBuilder()
		opts := smtkit.DefaultOptions()
		if seed, _ := cmd.Flags().GetUint("seed"); seed != 0 {
			opts.RandomSeed = &seed
		}

		solver, err := smtkit.NewSolver(eb, opts)
		exitOn(err)
		defer solver.Close()

		x, err := eb.Symbol("x", smtkit.IntType())
		exitOn(err)
		lower, err := eb.GT(x, eb.Int(0))
		exitOn(err)
		upper, err := eb.LT(x, eb.Int(2))
		exitOn(err)
		exitOn(solver.AddAssertion(lower))
		exitOn(solver.AddAssertion(upper))

		sat, err := solver.Solve()
		exitOn(err)
		if !sat {
			fmt.Println("unsat")
			return
		}
		model, err := solver.GetModel()
		exitOn(err)
		defer model.Close()
		fmt.Print(model)
	},
}

var coreCmd = &cobra.Command{
	Use:   "core",
	Short: "Show a named unsat core for conflicting assertions.",
	Run: func(cmd *cobra.Command, args []string) {
		eb := smtkit.NewFormulaBuilder()
		opts := smtkit.DefaultOptions()
		opts.UnsatCores = true

		solver, err := smtkit.NewSolver(eb, opts)
		exitOn(err)
		defer solver.Close()

		x, err := eb.Symbol("x", smtkit.IntType())
		exitOn(err)
		positive, err := eb.GT(x, eb.Int(0))
		exitOn(err)
		negative, err := eb.LT(x, eb.Int(0))
		exitOn(err)
		exitOn(solver.AddAssertionNamed("positive", positive))
		exitOn(solver.AddAssertionNamed("negative", negative))

		sat, err := solver.Solve()
		exitOn(err)
		if sat {
			fmt.Println("sat")
			return
		}
		core, err := solver.GetNamedUnsatCore()
		exitOn(err)
		for name, f := range core {
			fmt.Printf("%s: %s\n", name, f)
		}
	},
}

var qelimCmd = &cobra.Command{
	Use:   "qelim",
	Short: "Eliminate a quantifier from a linear real formula.",
	Run: func(cmd *cobra.Command, args []string) {
		eb := smtkit.NewFormulaBuilder()
		qe := smtkit.NewQuantifierEliminator(eb)
		defer qe.Close()

		x, err := eb.Symbol("x", smtkit.RealType())
		exitOn(err)
		y, err := eb.Symbol("y", smtkit.RealType())
		exitOn(err)
		below, err := eb.LT(x, y)
		exitOn(err)
		bounded, err := eb.LT(y, eb.Real(2, 1))
		exitOn(err)
		body, err := eb.And(below, bounded)
		exitOn(err)
		quantified, err := eb.Exists([]*smtkit.Formula{y}, body)
		exitOn(err)

		res, err := qe.Eliminate(quantified)
		exitOn(err)
		fmt.Printf("%s  =>  %s\n", quantified, res)
	},
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	solveCmd.Flags().Uint("seed", 0, "random seed for the engine")
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(coreCmd)
	rootCmd.AddCommand(qelimCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
