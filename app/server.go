package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// serve runs the HTTP server until SIGINT or SIGTERM arrives, then drains
// in-flight requests before returning.
func (app *application) serve(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	shutdownErr := make(chan error, 1)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", slog.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		shutdownErr <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server",
		slog.String("addr", addr),
		slog.String("environment", app.config.Environment),
		slog.String("version", app.config.Version))

	err := app.listen(srv)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	app.logger.Info("server stopped", slog.String("addr", srv.Addr))

	return nil
}

// listen serves plain HTTP outside production. Production requires the TLS
// certificate pair from the config.
func (app *application) listen(srv *http.Server) error {
	if app.config.Environment == "production" {
		return srv.ListenAndServeTLS(app.config.TLSCertFile, app.config.TLSKeyFile)
	}

	return srv.ListenAndServe()
}
