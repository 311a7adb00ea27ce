/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the STT statistics server. Handles configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize the SQLite store and migrate the schema
  3. Wire the API handler
  4. Start listening - only after the store is ready, so the first
     request never races the database

CONFIGURATION:
  Flags take precedence; each falls back to an environment variable.
    -port      PORT           HTTP port (default 5005)
    -db        STT_DB         SQLite path (default stt.db, ":memory:" ok)
    -workbook  STT_WORKBOOK   Legacy workbook for /import
                              (default "Synthèse v2.0.xlsx")

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain active requests
  (30s timeout), close the store, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Tiavinjanahary/STT/api"
	"github.com/Tiavinjanahary/STT/store/sqlite"
)

func main() {
	godotenv.Load()

	port := flag.Int("port", envInt("PORT", 5005), "HTTP server port")
	dbPath := flag.String("db", envStr("STT_DB", "stt.db"), "SQLite database path")
	workbookPath := flag.String("workbook", envStr("STT_WORKBOOK", "Synthèse v2.0.xlsx"), "Legacy workbook for imports")
	jsonLogs := flag.Bool("json-logs", envStr("LOG_FORMAT", "") == "json", "Log in JSON format")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stdout)
	if *jsonLogs {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	// Readiness gate: the listener only starts once the store is up and
	// migrated.
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()
	log.WithField("db", *dbPath).Info("database ready")

	handler := api.NewHandler(store, *workbookPath, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("forced shutdown")
	}

	log.Info("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
