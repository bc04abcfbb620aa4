// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carlosresu/avbuild"
	"github.com/carlosresu/avbuild/pkg/core"
)

var (
	cfgFile   string
	prefix    string
	sourceDir string
	jobs      int
	without   []string
	dryRun    bool
	verbose   bool
	config    *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "avbuild",
	Short: "Multimedia framework build orchestrator",
	Long: `avbuild - multimedia framework build orchestrator

Classifies the host platform, installs the native packages the selected
features need through the platform package manager, composes the
configure invocation and drives the configure/make/make install cycle,
failing fast on the first unrecoverable error.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBuild,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/avbuild/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "", "install prefix (default is the platform convention)")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "source", "", "source tree to build (default is the current directory)")
	rootCmd.PersistentFlags().IntVar(&jobs, "jobs", 0, "make parallelism (default is one job per CPU)")
	rootCmd.PersistentFlags().StringArrayVar(&without, "without", nil, "feature to exclude, repeatable")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "stop after composing and print the configure invocation")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if prefix != "" {
		config.Prefix = prefix
	}
	if sourceDir != "" {
		config.SourceDir = sourceDir
	}
	if jobs > 0 {
		config.Jobs = jobs
	}
	if len(without) > 0 {
		config.Without = append(config.Without, without...)
	}
	if verbose {
		config.Verbose = true
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ^C and SIGTERM cancel the context, which tears down the whole
	// process group of whatever external tool is running.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		cancel()
	}()

	orch := avbuild.New(avbuild.Options{
		Config:  config,
		DryRun:  dryRun,
		Verbose: config.Verbose,
	})

	report, err := orch.Run(ctx)
	report.Print(os.Stdout)
	return err
}
