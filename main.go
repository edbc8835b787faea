package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-lending/internal/config"
	"library-lending/internal/logger"
	"library-lending/library"
)

type app struct {
	cfg *config.Config
	log *logger.Logger
	mgr *library.LibraryManager
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		seedFile  string
		logLevel  string
		logFormat string
		journal   bool
	)

	root := &cobra.Command{
		Use:           "library",
		Short:         "Simulate a small lending library day by day",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("seed") {
				cfg.SeedFile = seedFile
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if flags.Changed("journal") {
				cfg.Journal = journal
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.open(cfg)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(os.Stdin, cmd.OutOrStdout(), term.IsTerminal(int(os.Stdin.Fd())))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&seedFile, "seed", "", "YAML seed file with items and patrons (default: built-in catalog)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format: text or json")
	pf.BoolVar(&journal, "journal", config.DefaultJournal, "keep an in-memory circulation journal")

	root.AddCommand(
		&cobra.Command{
			Use:   "shell",
			Short: "Interactive circulation desk",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runShell(os.Stdin, cmd.OutOrStdout(), term.IsTerminal(int(os.Stdin.Fd())))
			},
		},
		&cobra.Command{
			Use:   "run FILE",
			Short: "Execute circulation commands from a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				return a.runShell(f, cmd.OutOrStdout(), false)
			},
		},
		&cobra.Command{
			Use:   "demo",
			Short: "Run the sample checkout, return, request, fine and date scenario",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDemo(a.mgr, cmd.OutOrStdout())
			},
		},
	)
	return root
}

func (a *app) open(cfg *config.Config) error {
	a.cfg = cfg
	a.log = cfg.Logger()
	cfg.LogConfiguration(a.log)

	seed := library.DefaultSeed()
	if cfg.SeedFile != "" {
		s, err := library.LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		seed = s
	}

	mgr, err := library.NewLibraryManager(library.ManagerConfig{
		DailyFine: cfg.DailyFine,
		Journal:   cfg.Journal,
		Log:       a.log,
	})
	if err != nil {
		return err
	}
	mgr.LoadSeed(seed)
	a.mgr = mgr
	return nil
}

func (a *app) close() error {
	if a.mgr == nil {
		return nil
	}
	return a.mgr.Close()
}
