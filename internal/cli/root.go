// Package cli defines Cobra command definitions for the journeyd CLI.
// This file contains the root command and the shared config/dataset loading.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nainya/journeylens/internal/config"
	"github.com/nainya/journeylens/internal/logger"
	"github.com/nainya/journeylens/pkg/decision"
	"github.com/nainya/journeylens/pkg/journey"
)

var version = "dev" // set via ldflags at build time

// app carries what every subcommand needs once flags are parsed
type app struct {
	cfg *config.Config
	log *logger.Logger
}

type rootFlags struct {
	configPath string
	dataDir    string
	logLevel   string
	pretty     bool
}

// NewRootCmd builds the journeyd command tree.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	a := &app{}

	root := &cobra.Command{
		Use:   "journeyd",
		Short: "Browse a recorded coaching journey and its analytics",
		Long: `journeyd serves a pre-recorded coaching conversation split into weekly
episodes, the rationale behind each tagged decision, and a dashboard of
monthly adherence and team engagement. The same data can be inspected from
the terminal.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, flags)
		},
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to journeyd.yaml (default $JOURNEY_CONFIG or ./journeyd.yaml)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "Directory holding the bundled journey data")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&flags.pretty, "pretty", false, "Human-readable console logs")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newEpisodesCmd(a))
	root.AddCommand(newChatsCmd(a))
	root.AddCommand(newDecisionCmd(a))
	root.AddCommand(newDashboardCmd(a))
	root.AddCommand(newWeeksCmd(a))

	return root
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, flags rootFlags) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = flags.dataDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Log.Pretty = flags.pretty
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.InitGlobalLogger(logger.Config{
		Level:      cfg.Log.Level,
		Pretty:     cfg.Log.Pretty,
		Output:     cmd.ErrOrStderr(),
		WithCaller: cfg.Log.Caller,
	})
	a.cfg = cfg
	a.log = logger.GetGlobalLogger()
	return nil
}

// loadDataset reads the bundled episodes and chats.
func (a *app) loadDataset() (*journey.Dataset, error) {
	start := time.Now()
	data, err := journey.LoadDataset(a.cfg.DataDir)
	if err != nil {
		a.log.LogDataLoad("dataset", time.Since(start), 0, err)
		return nil, err
	}
	a.log.LogDataLoad("dataset", time.Since(start), len(data.Episodes)+len(data.Chats), nil)
	return data, nil
}

// decisions returns the decision loader for the configured data directory.
func (a *app) decisions() decision.Loader {
	var loader decision.Loader = decision.NewDirStore(filepath.Join(a.cfg.DataDir, journey.DecisionsDir))
	if a.cfg.CacheDecisions {
		loader = decision.NewCachedLoader(loader)
	}
	return loader
}
