package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pbsms/internal/app"
	smssvc "pbsms/internal/services/sms"
	"pbsms/internal/ui"
)

// errFailed signals exit status 1; the reason has already been printed.
var errFailed = errors.New("pbsms: failed")

// Execute runs the CLI with the process arguments.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errFailed) {
		// flag parsing and other cobra-level failures
		ui.NewPrinter(root.ErrOrStderr()).Error("Error: %v", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		wire    *app.Wire
		v       = viper.New()
	)

	root := &cobra.Command{
		Use:           "pbsms [APIKey=<key> | <phone number> <message>]",
		Short:         "Send SMS messages through Pushbullet",
		Version:       app.Version(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil // help only
			}
			cfg, err := app.LoadConfig(v, cfgFile)
			if err != nil {
				ui.NewPrinter(cmd.ErrOrStderr()).Error("Error: %v", err)
				return errFailed
			}
			cfg.LogOutput = cmd.ErrOrStderr()
			if wire, err = app.NewWire(cfg); err != nil {
				ui.NewPrinter(cmd.ErrOrStderr()).Error("Error: %v", err)
				return errFailed
			}
			if cfg.Cipher == app.CipherHost {
				ui.NewPrinter(cmd.ErrOrStderr()).Info("Warning: %s", app.HostCipherWarning)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := ui.NewPrinter(cmd.OutOrStdout())
			errOut := ui.NewPrinter(cmd.ErrOrStderr())

			if len(args) == 0 {
				out.Help(app.Version())
				return nil
			}
			defer func() { _ = wire.Log.Sync() }()

			if len(args) == 1 {
				if value, ok := smssvc.ParseAPIKeyArg(args[0]); ok {
					return runKey(cmd.Context(), wire, value, out, errOut)
				}
			}
			if len(args) != 2 {
				errOut.Error("Error: Invalid number of arguments.")
				out.Help(app.Version())
				return errFailed
			}
			return runSend(cmd.Context(), wire, args[0], args[1], out, errOut)
		},
	}

	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		ui.NewPrinter(cmd.OutOrStdout()).Help(app.Version())
	})
	root.SetVersionTemplate("PBSMS v{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default <home>/config.yaml)")
	flags.String(app.KeyHome, "", "directory holding the encrypted key (default <user config dir>/PBSMS)")
	flags.BoolP(app.KeyVerbose, "v", false, "debug logging on stderr")
	bindFlags(v, flags, app.KeyHome, app.KeyVerbose)

	// Flags end at the first positional so a message may start with "-".
	flags.SetInterspersed(false)
	root.Flags().SetInterspersed(false)

	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	for _, n := range names {
		_ = v.BindPFlag(n, flags.Lookup(n))
	}
}
