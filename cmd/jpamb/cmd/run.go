package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magladko/jpamb-sub000/internal/caseparser"
	"github.com/magladko/jpamb-sub000/internal/concrete"
	"github.com/magladko/jpamb-sub000/internal/jvm"
	"github.com/magladko/jpamb-sub000/internal/verdict"
)

var runCmd = &cobra.Command{
	Use:   "run <method-id> <input>",
	Short: "Run a method concretely against one ground-truth input",
	Long: `Execute a method with the concrete interpreter against a single
input, given in the case file's (input-tuple) grammar, and print the
verdict reached.`,
	Args: cobra.ExactArgs(2),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	method, err := jvm.DecodeAbsMethodID(args[0])
	if err != nil {
		return err
	}
	input, err := caseparser.DecodeInput(args[1])
	if err != nil {
		return err
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	if verbose {
		logger.Debug("run start", "method", method, "input", input)
	}

	v, err := recoverVerdict("cmd.run", method, func() (verdict.Verdict, error) {
		st := concrete.NewState(method, nil)
		st.BindArgs(st.CurrentFrame(), input.Values(), input.Elements())
		cov := concrete.NewCoverage()
		return concrete.RunState(eng.store, st, eng.cfg.StepBudget, cov)
	})
	if err != nil {
		return err
	}

	fmt.Println(v)
	return nil
}
