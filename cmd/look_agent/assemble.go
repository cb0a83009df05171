package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/observability"
	"github.com/jonathan/look-composer/internal/schemas"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble one look from a style plan file",
	Long: `Runs the full assembly for a single style plan: sources candidate products
per slot, scores them against the plan's constraints, and prints the resulting
look as JSON.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runAssemble,
}

var (
	assembleConfigPath  string
	assemblePlanPath    string
	assembleOutPath     string
	assembleRetailers   []string
	assembleUseBrowser  bool
	assembleWebSearch   bool
	assembleDatabaseURL string
	assembleVerbose     bool
)

func init() {
	assembleCmd.Flags().StringVar(&assembleConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	assembleCmd.Flags().StringVarP(&assemblePlanPath, "plan", "p", "", "Path to the style plan JSON file (required)")
	assembleCmd.Flags().StringVarP(&assembleOutPath, "out", "o", "", "Write the look response JSON to this file instead of stdout")
	assembleCmd.Flags().StringSliceVar(&assembleRetailers, "retailers", nil, "Retailers to source from, in priority order")
	assembleCmd.Flags().BoolVar(&assembleUseBrowser, "use-browser", false, "Use headless browser for JS-heavy shop pages (requires Chrome)")
	assembleCmd.Flags().BoolVar(&assembleWebSearch, "web-search", false, "Enable the generic web search source")
	assembleCmd.Flags().StringVar(&assembleDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	assembleCmd.Flags().BoolVarP(&assembleVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = assembleCmd.MarkFlagRequired("plan")

	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadEngineConfig(assembleConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("retailers") {
		cfg.Retailers = assembleRetailers
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = assembleUseBrowser
	}
	if cmd.Flags().Changed("web-search") {
		cfg.WebSearch = assembleWebSearch
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = assembleDatabaseURL
	}

	verbose := assembleVerbose || cfg.Verbose
	logger := newLogger(verbose)

	plan, err := loadPlan(assemblePlanPath)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open job store: %w", err)
	}
	defer closeStore()

	worker := buildWorker(cfg, store, logger)

	var printer *observability.Printer
	if verbose {
		printer = observability.NewPrinter(os.Stderr)
		printer.PrintStylePlan(plan)
	}

	response, err := worker.Assemble(ctx, plan)
	if err != nil {
		return fmt.Errorf("assembly rejected the plan: %w", err)
	}

	if printer != nil {
		if job, err := store.GetByLookID(ctx, plan.LookID); err == nil && job != nil {
			printer.PrintProgress(job.Progress)
		}
		printer.PrintLookResponse(response)
	}

	return writeResponse(response, assembleOutPath)
}

// loadPlan reads and validates a style plan file, using the JSON schema
// when it can be located.
func loadPlan(path string) (*catalog.StylePlan, error) {
	if path == "" {
		return nil, fmt.Errorf("plan path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(schemas.StylePlanSchemaFile); schemaPath != "" {
		if err := schemas.ValidateBytes(schemaPath, data); err != nil {
			return nil, fmt.Errorf("plan failed schema validation: %w", err)
		}
	}

	var plan catalog.StylePlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}
	return &plan, nil
}

func writeResponse(response *catalog.LookResponse, outPath string) error {
	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode look response: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write look response: %w", err)
	}
	return nil
}
