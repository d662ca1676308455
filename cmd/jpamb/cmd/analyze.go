package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/magladko/jpamb-sub000/internal/abstract"
	"github.com/magladko/jpamb-sub000/internal/debloat"
	"github.com/magladko/jpamb-sub000/internal/domain"
	"github.com/magladko/jpamb-sub000/internal/jvm"
	"github.com/magladko/jpamb-sub000/internal/verdict"
)

var analyzeDomain string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <method-id>",
	Short: "Abstractly analyze a method over every possible input",
	Long: `Run the abstract interpreter over a chosen numeric domain and
print one line per reachable verdict, each paired with a confidence wager
in [0,100], per the analysis-tool protocol (spec.md §6). With no
scoreable prediction, a full-confidence "ok;percent100" default is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDomain, "domain", "", "abstract domain to use (signset|interval); defaults to the config's debloat_domain")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	method, err := jvm.DecodeAbsMethodID(args[0])
	if err != nil {
		return err
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	domainName := analyzeDomain
	if domainName == "" {
		domainName = eng.cfg.DebloatDomain
	}

	runID := uuid.New()
	start := time.Now()
	logger.Debug("analyze start", "run", runID, "method", method, "domain", domainName)

	values, err := eng.helper.InterestingValues(method)
	if err != nil {
		return err
	}
	kset := debloat.GenerateKSet(values)

	set, err := analyzeWithDomain(eng, method, domainName, kset)
	if err != nil {
		return err
	}

	if verbose {
		logger.Debug("analyze done", "run", runID, "method", method,
			"elapsed", time.Since(start), "thresholds", humanize.Comma(int64(len(kset))))
	}

	for _, p := range verdict.EvenWager(set) {
		fmt.Println(p)
	}
	return nil
}

// analyzeWithDomain dispatches to the abstract interpreter with the
// configured domain's concrete type argument, mirroring
// internal/debloat.Orchestrator.runAbstractCoverage's dispatch — Go
// generics need a compile-time type parameter, so only the domains
// switched on here are reachable; anything else falls back to SignSet.
func analyzeWithDomain(eng *engine, method jvm.AbsMethodID, domainName string, kset []int64) (verdict.Set, error) {
	switch domainName {
	case "interval":
		ops := domain.Ops[domain.Interval, int64]{Bot: domain.IntervalBot, Top: domain.IntervalTop, Abstract: domain.IntervalAbstract}
		return abstract.Analyze(eng.store, method, ops, kset, eng.cfg, abstract.NewCoverage())
	default:
		ops := domain.Ops[domain.SignSet, int64]{Bot: domain.SignSetBot, Top: domain.SignSetTop, Abstract: domain.SignSetAbstract}
		return abstract.Analyze(eng.store, method, ops, kset, eng.cfg, abstract.NewCoverage())
	}
}
