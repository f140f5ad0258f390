package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumitdasdk/DRX-pro/fixture"
	"github.com/sumitdasdk/DRX-pro/rxapp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reference application",
	Long: `Serve runs the built-in reference application with the credentials of the
fixture document, so scenarios can be run against it with --base-url.`,
	RunE: serve,
}

func init() {
	flags := serveCmd.Flags()
	flags.String("addr", "127.0.0.1:8080", "Listen address")
	flags.Duration("add-patient-delay", 0, "Delay before the Add Patient button appears")
	flags.Duration("session-idle-timeout", rxapp.DefaultSessionIdleTimeout, "Sign-in lifetime without activity")

	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	path := v.GetString("fixtures")
	if path == "" {
		path = fixture.RepositoryPath()
	}
	doc, err := fixture.Load(path)
	if err != nil {
		return err
	}
	login := doc.Login()

	app := rxapp.NewHandler(
		rxapp.WithCredentials(login.Username, login.Password),
		rxapp.WithDisplayName(login.ExpectedDisplayName),
		rxapp.WithAddPatientDelay(v.GetDuration("add-patient-delay")),
		rxapp.WithSessionIdleTimeout(v.GetDuration("session-idle-timeout")),
		rxapp.WithLogger(logger),
	)
	defer app.Close()

	srv := &http.Server{
		Addr:              v.GetString("addr"),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving reference application", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
