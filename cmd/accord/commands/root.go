package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"accord/internal/app"
)

type cli struct {
	configPath string
	home       string
	storeKind  string
	serverURL  string
	logLevel   string

	wire *app.Wire
}

// Execute runs the CLI with os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes one CLI invocation and releases the stores it opened, also
// when the command fails.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.ExecuteContext(ctx)
	if c.wire != nil {
		if cerr := c.wire.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "accord",
		Short:        "End-to-end encrypted messaging CLI",
		Version:      app.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "YAML config file")
	pf.StringVar(&c.home, "home", "", "data dir (default ~/.accord)")
	pf.StringVar(&c.storeKind, "store", "", "store backend: file, sqlite or remote")
	pf.StringVar(&c.serverURL, "server", "", "accordd base URL for --store remote")
	pf.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.keysCmd(),
		c.publishCmd(),
		c.sendCmd(),
		c.readCmd(),
		c.safetyNumberCmd(),
		c.migrateKeysCmd(),
		c.profileCmd(),
		c.notificationsCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := app.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("home") {
		cfg.Home = c.home
	}
	if flags.Changed("store") {
		cfg.Store = c.storeKind
	}
	if flags.Changed("server") {
		cfg.ServerURL = c.serverURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}

	log := app.NewLogger(cfg, "accord", cmd.ErrOrStderr())
	w, err := app.NewWire(cfg, log)
	if err != nil {
		return err
	}
	c.wire = w
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
