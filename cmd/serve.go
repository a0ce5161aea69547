package cmd

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

	"github.com/ziadkadry99/missionview/internal/report"
	"github.com/ziadkadry99/missionview/internal/server"
	"github.com/ziadkadry99/missionview/internal/viewer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web viewer",
	Long: `Starts the HTTP server with the upload page, the interactive report viewer,
the document API and the report archive API.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Int("open-documents", viewer.DefaultOpenDocuments, "documents kept open in memory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	openDocs, _ := cmd.Flags().GetInt("open-documents")

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	renderer, err := createRenderer(cfg)
	if err != nil {
		return err
	}
	docs, err := viewer.NewRegistry(renderer, openDocs)
	if err != nil {
		return err
	}

	opts := viewer.Options{
		Reports:      report.NewStore(database),
		ScrollOffset: cfg.Render.ScrollOffset,
		MaxUpload:    cfg.Upload.MaxBytes,
	}
	// The viewer still works without a provider; only generation is disabled.
	if gen, err := createGenerator(cfg, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\nGeneration is disabled; archived reports can still be viewed.\n", err)
	} else {
		opts.Generator = gen
	}

	timeout := server.DefaultRequestTimeout
	if cfg.LLM.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.LLM.TimeoutSeconds)*time.Second + 30*time.Second
	}
	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowAll:       cfg.Server.AllowAll,
		RequestTimeout: timeout,
	}, database, viewer.New(docs, opts))

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		srv.Shutdown(context.Background())
	}()

	fmt.Fprintf(os.Stderr, "missionview %s starting on http://localhost:%d\n", Version, cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
	fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
