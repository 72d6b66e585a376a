// Package main is the entry point for bill95. It computes 95th percentile
// traffic for customer-tagged Observium ports and prints or emails the report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edgenative/bill95/internal/config"
	"github.com/edgenative/bill95/internal/logger"
	"github.com/edgenative/bill95/internal/services"
	"github.com/edgenative/bill95/internal/version"
)

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(exitCodeError)
	}
	os.Exit(exitCodeSuccess)
}

// newRootCmd builds the command. The report goes to stdout, logs to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		opts    config.Options
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "bill95 --observium-config <path> [flags]",
		Short: "95th percentile billing report for Observium customer ports",
		Long: `bill95 reads customer-tagged ports (ifAlias "Cust: <name>") from the
Observium database, computes the 95th percentile of each port's traffic for
the current or previous calendar month and prints or emails the report.

Environment Variables:
  BILL95_SMTP_HOST      SMTP relay host (default: localhost)
  BILL95_SMTP_PORT      SMTP relay port (default: 25)
  BILL95_SMTP_SENDER    From address (default: billing@yourdomain.net)
  BILL95_SMTP_USERNAME  SMTP auth user (optional)
  BILL95_SMTP_PASSWORD  SMTP auth password (optional)
  BILL95_SMTP_TIMEOUT   SMTP timeout (default: 30s)
  BILL95_DB_TIMEOUT     Database connect timeout (default: 10s)
  BILL95_RRDTOOL        rrdtool binary (default: rrdtool)
  BILL95_RRDCACHED      rrdcached address passed as --daemon (optional)

The same variables may be set in .env files in the current directory,
~/.config/bill95/.env or /etc/bill95/.env.`,
		Version:       version.GetVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Setup(stderr, verbose)
			return run(cmd.Context(), opts, stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(version.Info() + "\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.ObserviumConfigPath, "observium-config", "", "path to the Observium config.php")
	flags.StringVar(&opts.Email, "email", "", "email the report to this address instead of printing it")
	flags.BoolVar(&opts.PrevMonth, "prev", false, "report on the previous calendar month")
	flags.StringVar(&opts.RRDBase, "rrd-base", "", "RRD directory (default: rrd_dir from config.php or "+config.DefaultRRDBase+")")
	flags.BoolVar(&opts.Graph, "graph", false, "append ASCII traffic charts to the printed report")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	flags.BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")
	_ = cmd.MarkFlagRequired("observium-config")
	_ = cmd.MarkFlagFilename("observium-config", "php")

	return cmd
}

// run loads configuration and executes one billing pass.
func run(ctx context.Context, opts config.Options, stdout io.Writer) error {
	cfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Debug("configuration loaded",
		"db_host", cfg.Database.Host, "db_name", cfg.Database.Name,
		"rrd_base", cfg.RRDBase, "email", cfg.Email != "")

	if _, err := services.NewManager(cfg, stdout).Run(ctx); err != nil {
		return err
	}
	return nil
}
