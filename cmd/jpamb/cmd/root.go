package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information, overridable by build flags (-ldflags "-X ...").
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	workdir    string
	configPath string
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jpamb",
	Short: "Predict JVM bytecode outcomes and debloat dead code",
	Long: `jpamb analyzes decompiled JVM bytecode and predicts which of six
outcomes a method reaches when run: ok, assertion error, divide by zero,
out of bounds, null pointer, or the unknown verdict "*" when no sound
prediction can be made.

It ships a concrete interpreter for ground-truth execution, an abstract
interpreter over a choice of numeric domains for sound over-approximation,
and a dead-code debloating pipeline that rewrites a method's source to
drop statements no case in the suite ever executes.`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&workdir, "workdir", "w", ".", "suite root (target/classes, src/main/java, decompiled, stats)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "jpamb.yml", "path to a YAML config overriding engine defaults")

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
