package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/evdispatch/cmd/evdispatch/internal/format"
	"github.com/vulntor/evdispatch/pkg/appctx"
	"github.com/vulntor/evdispatch/pkg/cli"
	"github.com/vulntor/evdispatch/pkg/config"
	"github.com/vulntor/evdispatch/pkg/logging"
	"github.com/vulntor/evdispatch/pkg/version"
)

const cliExecutable = "evdispatch"

// NewCommand constructs the top-level evdispatch CLI command, wiring global
// flags, configuration loading and logging.
func NewCommand() *cobra.Command {
	var (
		configFile string
		outputMode string
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Inspect and simulate priority-ordered event dispatch tables",
		Long: `evdispatch builds the dispatch table described by a YAML manifest and lets
you inspect it or fire events through stand-in listeners.

A manifest registers event names and listeners with per-event priorities:

  dispatch:
    events: [opened, closed]
    listeners:
      - name: audit
        priorities: {opened: 5}
      - name: metrics`,
		Example: `  # Print the full table
  evdispatch table -c manifest.yaml

  # Show delivery order for one event
  evdispatch order opened -c manifest.yaml -o json

  # Fire an event and print the delivery trace
  evdispatch fire opened -c manifest.yaml --metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := format.ValidateMode(outputMode); err != nil {
				return err
			}

			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfg := mgr.Get()

			logging.ConfigureGlobalLogging(cfg.Log.Level, logging.Format(cfg.Log.Format), cmd.ErrOrStderr())
			log.Debug().
				Str("config", configFile).
				Int("events", len(cfg.Dispatch.Events)).
				Int("listeners", len(cfg.Dispatch.Listeners)).
				Msg("configuration loaded")

			if err := version.Check(cfg.Dispatch.Requires); err != nil {
				return fmt.Errorf("manifest requirement: %w", err)
			}

			ctx := appctx.WithConfig(cmd.Context(), mgr)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Dispatch manifest path (YAML)")
	cmd.PersistentFlags().StringVarP(&outputMode, "output", "o", string(format.ModeTable), "Output format: table, json or yaml")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress summary lines")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewTableCommand())
	cmd.AddCommand(NewOrderCommand())
	cmd.AddCommand(NewFireCommand())
	cmd.AddCommand(cli.NewVersionCommand(cliExecutable))

	return cmd
}

// newFormatter builds a formatter from the persistent output flags.
func newFormatter(cmd *cobra.Command) format.Formatter {
	mode, _ := cmd.Flags().GetString("output")
	noColor, _ := cmd.Flags().GetBool("no-color")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return format.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), format.ParseMode(mode), quiet, colorEnabled(noColor))
}

func colorEnabled(noColor bool) bool {
	return !noColor && !color.NoColor
}
