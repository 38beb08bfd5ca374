package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/linksmith/internal/config"
	"github.com/amosWeiskopf/linksmith/internal/logging"
	"github.com/amosWeiskopf/linksmith/internal/server"
	"github.com/amosWeiskopf/linksmith/pkg/analyzer"
	"github.com/amosWeiskopf/linksmith/pkg/crawler"
	"github.com/amosWeiskopf/linksmith/pkg/reporter"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errBrokenLinks = errors.New("broken links found")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linksmith",
		Short: "Linksmith - broken link checker",
		Long: `Linksmith fetches a single web page, checks every HTTP(S) link on it
concurrently and reports which links are working and which are broken.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [URL]",
		Short: "Check every link on a page",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}

	cmd.Flags().String("format", reporter.FormatText, "Report format (text, json, markdown, html)")
	cmd.Flags().String("output", "", "Output file for the report")
	cmd.Flags().Int("max-links", crawler.DefaultMaxLinks, "Maximum number of links to check")
	cmd.Flags().Duration("timeout", 0, "Per-link timeout (overrides config)")
	cmd.Flags().Int("concurrency", 0, "Maximum concurrent checks, 0 for one per link")
	cmd.Flags().Bool("fail-on-broken", false, "Exit non-zero when any link is broken")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve link checks over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().String("host", "", "Listen host (overrides config)")
	cmd.Flags().Int("port", 0, "Listen port (overrides config)")
	return cmd
}

// setup loads configuration, applies flag overrides and builds the logger.
// The caller closes the returned closer when done logging.
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger, io.Closer, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("max-links") {
		cfg.Checker.MaxLinks, _ = flags.GetInt("max-links")
	}
	if flags.Changed("timeout") {
		cfg.Checker.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("concurrency") {
		cfg.Checker.MaxConcurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	failOnBroken, _ := cmd.Flags().GetBool("fail-on-broken")

	c, err := crawler.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create crawler: %w", err)
	}

	report, err := c.Crawl(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	doc := reporter.Document{
		Report:    report,
		Breakdown: analyzer.New().Analyze(report),
	}

	r := reporter.New()
	if output != "" {
		r.WithColor(false)
		rendered, err := r.RenderString(doc, format)
		if err != nil {
			return fmt.Errorf("report generation failed: %w", err)
		}
		if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", output)
	} else if err := r.Render(cmd.OutOrStdout(), doc, format); err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	if failOnBroken && report.Broken > 0 {
		return fmt.Errorf("%w: %d of %d", errBrokenLinks, report.Broken, report.Total)
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	if wt := cfg.EffectiveWriteTimeout(); wt > cfg.Server.WriteTimeout {
		logger.WithFields(logrus.Fields{
			"configured": cfg.Server.WriteTimeout.String(),
			"effective":  wt.String(),
		}).Info("Raising write timeout to fit a full crawl")
		cfg.Server.WriteTimeout = wt
	}

	c, err := crawler.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create crawler: %w", err)
	}

	return server.New(cfg.Server, c, logger).ListenAndServe(cmd.Context())
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
