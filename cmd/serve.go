package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexiusacademia/goslope/internal/server"
	"github.com/alexiusacademia/goslope/internal/store"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve the analysis over HTTP.

Endpoints:
  GET    /healthz
  POST   /api/analyze          analyze a case (JSON body)
  GET    /api/analyses         list recorded analyses (?limit=N)
  GET    /api/analyses/{id}    one recorded analysis
  DELETE /api/analyses/{id}    delete a recorded analysis
  POST   /api/report/pdf       PDF report for a case
  POST   /api/diagram          stability map (?format=png|svg|pdf|jpg)

Examples:
  goslope serve
  goslope serve --addr :9000
  GOSLOPE_STORE_PATH= goslope serve   # no history`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config server.addr)")
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	var st *store.Store
	if cfg.Store.Path != "" {
		st, err = store.NewStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer st.Close()
		log.Printf("Recording analyses in %s", cfg.Store.Path)
	}

	srv := server.New(st, server.Options{
		Rate:   cfg.Limit.Rate,
		Burst:  cfg.Limit.Burst,
		Solver: cfg.Solver.Options(),
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
		return
	}
	log.Println("Server stopped")
}
