package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	drxpro "github.com/sumitdasdk/DRX-pro"
	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/report"
	"github.com/sumitdasdk/DRX-pro/rxapp"
	"github.com/sumitdasdk/DRX-pro/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run scenarios against the application",
	Long: `Run executes the named scenarios, or every scenario when none are named,
each in its own browser session. The exit status is 0 only if all of them pass.

With --local the scenarios run against the built-in reference application
instead of the deployment named in the fixture document.`,
	Example: `  drxpro run
  drxpro run TC-001 TC-P02
  drxpro run --tag history --parallel 3 --html report.html
  drxpro run --local --follow TC-P04
  HEADLESS=false drxpro run --local --slow-mo 250ms TC-RX-PAGE-07`,
	RunE: runScenarios,
}

func init() {
	flags := runCmd.Flags()
	flags.StringSlice("tag", nil, "Only run scenarios with one of these tags")
	flags.Int("parallel", 1, "Number of scenarios running at once")
	flags.Duration("timeout", 0, "Upper bound for each scenario (0 = none)")
	flags.String("screenshots", "", "Directory for screenshots of failed scenarios")
	flags.String("html", "", "Also write an HTML report to this file")
	flags.Bool("verbose", false, "List the steps of passed scenarios too")
	flags.Bool("follow", false, "Print every browser step to stderr while scenarios run")
	flags.Int("log-tail", 10, "Log records shown per failed scenario")
	flags.String("browser", "chromium", "Browser engine: chromium, firefox or webkit")
	flags.Bool("headed", false, "Show the browser window")
	flags.Duration("slow-mo", 0, "Delay every browser operation")
	flags.Bool("collision-guard", false, "Keep generated names unique within the same second")
	flags.Bool("local", false, "Run against the built-in reference application")
	flags.Duration("add-patient-delay", 0, "With --local, delay before the Add Patient button appears")
	flags.Bool("skip-preflight", false, "Do not check that the application answers before launching the browser")

	rootCmd.AddCommand(runCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	driverOptions := &browser.DriverOptions{
		Browser: v.GetString("browser"),
		SlowMo:  v.GetDuration("slow-mo"),
	}
	if v.GetBool("headed") {
		headless := false
		driverOptions.Headless = &headless
	}

	inst, err := drxpro.NewWithOptions(drxpro.Options{
		FixturePath:     v.GetString("fixtures"),
		BaseURL:         v.GetString("base-url"),
		LocalApp:        v.GetBool("local"),
		AppOptions:      []rxapp.HandlerOption{rxapp.WithAddPatientDelay(v.GetDuration("add-patient-delay"))},
		Parallelism:     v.GetInt("parallel"),
		ScenarioTimeout: v.GetDuration("timeout"),
		ScreenshotDir:   v.GetString("screenshots"),
		CollisionGuard:  v.GetBool("collision-guard"),
		DriverOptions:   driverOptions,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := inst.Close(); err != nil {
			logger.Warn("Failed to shut down cleanly", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stopFollow := func() {}
	if v.GetBool("follow") {
		followCtx, cancel := context.WithCancel(ctx)
		done := report.Follow(followCtx, inst.Journal(), cmd.ErrOrStderr())
		stopFollow = func() {
			cancel()
			<-done
		}
	}
	defer stopFollow()

	if !v.GetBool("skip-preflight") {
		if err := inst.Preflight(ctx); err != nil {
			return err
		}
	}

	rep, err := inst.Run(ctx, drxpro.Selection{Names: args, Tags: v.GetStringSlice("tag")})
	stopFollow()
	if err != nil {
		return err
	}

	reportOptions := []report.Option{
		report.WithJournal(inst.Journal(), v.GetInt("log-tail")),
		report.WithVerbose(v.GetBool("verbose")),
	}
	if err := report.WriteText(cmd.OutOrStdout(), rep, reportOptions...); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if path := v.GetString("html"); path != "" {
		if err := writeHTMLReport(ctx, path, rep, reportOptions); err != nil {
			return err
		}
		logger.Info("Wrote HTML report", "path", path)
	}

	if !rep.OK() {
		return errScenariosFailed
	}
	return nil
}

func writeHTMLReport(ctx context.Context, path string, rep scenario.Report, opts []report.Option) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	if err := report.HTML(rep, opts...).Render(context.WithoutCancel(ctx), f); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return f.Close()
}
