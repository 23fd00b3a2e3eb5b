package main

import (
	"fmt"
	"log"
	"os"

	"curseddiff/config"
	"curseddiff/logger"

	"github.com/spf13/cobra"
)

// configFlags are the config keys settable from the command line, by flag name
var configFlags = []struct{ name, usage string }{
	{"api-url", "backend base URL"},
	{"timeout-ms", "HTTP timeout in milliseconds"},
	{"log-level", "trace, debug, info, warn or error"},
	{"proximity-threshold", "max line gap merged into one connector group"},
	{"line-height", "terminal rows per diff line"},
	{"history-backend", "sqlite or memory"},
	{"history-path", "sqlite history database"},
	{"theme", "chroma style name"},
	{"syntax-highlight", "highlight unchanged lines (true/false)"},
}

type app struct {
	configPath string
	logPath    string
	cfg        config.Config
	log        *logger.LimitedLogger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "curseddiff [fileA] [fileB]",
		Short:        "Side-by-side diff viewer for two compared folders",
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: a.runTUI,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&a.logPath, "log-file", config.LogPath(), "log file")
	for _, f := range configFlags {
		flags.String(f.name, "", f.usage)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "tui [fileA] [fileB]",
			Short: "Open the interactive viewer (default)",
			Args:  cobra.MaximumNArgs(2),
			RunE:  a.runTUI,
		},
		a.diffCmd(),
		a.historyCmd(),
		&cobra.Command{
			Use:   "nvim",
			Short: "Relay stdio to the editor daemon, starting it if needed",
			Args:  cobra.NoArgs,
			RunE:  a.runClient,
		},
		&cobra.Command{
			Use:    "daemon",
			Hidden: true,
			Args:   cobra.NoArgs,
			RunE:   a.runDaemon,
		},
	)
	return root
}

// setup loads the config, applies flags the user actually set and installs the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	for _, f := range configFlags {
		flag := cmd.Flags().Lookup(f.name)
		if flag == nil || !flag.Changed {
			continue
		}
		if cfg, err = cfg.Override(f.name, flag.Value.String()); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	ll, err := logger.Setup(a.logPath, level)
	if err != nil {
		return err
	}
	a.log = ll
	log.SetOutput(ll)
	logger.Debug("config: %+v", cfg)
	return nil
}

func (a *app) close() {
	if a.log != nil {
		log.SetOutput(os.Stderr)
		a.log.Close()
		a.log = nil
	}
}

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
