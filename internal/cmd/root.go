package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/config"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/model"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/output"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the analyzer command. Each call gets its own viper
// instance so commands can be built and run independently in tests.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	var cfgFile string

	cmd := &cobra.Command{
		Use:   "logs-analyzer FILE [FILE...] --report handlers",
		Short: "Summarize Django request logs per handler and level",
		Long: `logs-analyzer reads one or more Django log files concurrently, extracts
request records from django.request lines and prints how many requests each
handler received at every severity level.

Examples:
  logs-analyzer app.log --report handlers
  logs-analyzer logs/app1.log logs/app2.log --report handlers
  logs-analyzer "logs/**/*.log" --report handlers --output json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadIn(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logs-analyzer.yaml)")
	flags.StringP(config.KeyReport, "r", "", "report type (required unless set in env or config): "+reportTypes())
	flags.StringP(config.KeyOutput, "o", output.FormatText, "output format: "+strings.Join(output.Formats(), ", "))
	flags.Bool(config.KeyColor, false, "colorize the text table")
	flags.IntP(config.KeyWorkers, "w", runtime.NumCPU(), "files read in parallel")
	flags.String(config.KeyMarker, parser.DefaultMarker, "substring that marks request lines")
	flags.String(config.KeyPattern, "", "custom pattern with timestamp, level and path groups")
	flags.BoolP(config.KeyVerbose, "v", false, "enable verbose logging")

	cobra.CheckErr(v.BindPFlags(flags))

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func reportTypes() string {
	types := model.ReportTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
