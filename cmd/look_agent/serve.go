package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/look-composer/internal/schemas"
	"github.com/jonathan/look-composer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that accepts style plans and assembles looks in the background.`,
	RunE:  runServe,
}

var (
	serveConfigPath string
	servePort       int
	serveVerbose    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadEngineConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") || cfg.Port == 0 {
		cfg.Port = servePort
	}

	logger := newLogger(serveVerbose || cfg.Verbose)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open job store: %w", err)
	}
	defer closeStore()

	worker := buildWorker(cfg, store, logger)

	srv := server.New(server.Config{
		Port:       cfg.Port,
		SchemaPath: schemas.ResolveSchemaPath(schemas.StylePlanSchemaFile),
	}, worker, store, logger)

	return srv.Start()
}
