// Package cli provides the pensieve command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/ai"
	configfile "github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/config/file"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/export/markdown"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/index/flat"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/storage/archive"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pensieve-labs/pensieve-cli/internal/connectors"
	"github.com/pensieve-labs/pensieve-cli/internal/connectors/bee"
	"github.com/pensieve-labs/pensieve-cli/internal/connectors/exportdir"
	"github.com/pensieve-labs/pensieve-cli/internal/connectors/limitless"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
	"github.com/pensieve-labs/pensieve-cli/internal/core/services"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
	"github.com/pensieve-labs/pensieve-cli/internal/normalisers"
	"github.com/pensieve-labs/pensieve-cli/internal/postprocessors"
)

var version = "dev"

// SetVersion records the binary version shown by the version command.
// main sets it from the build information.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Root flags.
var (
	flagConfigDir string
	flagDataDir   string
	flagVerbose   bool
)

// Services backing the commands. Wired from configuration on first
// use; tests inject fakes and set wired to bypass the config path.
var (
	configStore        driven.ConfigStore
	entryStore         driven.EntryStore
	exclusionStore     driven.ExclusionStore
	runStore           driven.RunStore
	connectorRegistry  driven.ConnectorRegistry
	embeddingService   driven.EmbeddingService
	llmService         driven.LLMService
	ingestOrchestrator driving.IngestOrchestrator
	searchService      driving.SearchService
	entryService       driving.EntryService
	exportService      driving.ExportService
	summaryService     driving.SummaryService
	schedulerService   *services.Scheduler
	schedulerConfig    domain.SchedulerConfig

	wired    bool
	cleanups []func()
)

var rootCmd = &cobra.Command{
	Use:   "pensieve",
	Short: "Local semantic archive for lifelog recordings",
	Long: `Pensieve ingests lifelog recordings from wearable vendors into a
local embedding-indexed archive and searches them by meaning.

Records are fetched incrementally from the Limitless and Bee APIs (or
read from a local export directory), normalised into one canonical
form, chunked when long, embedded, and persisted on disk. Searching
embeds the query and ranks entries by vector distance.`,
	PersistentPreRunE: initialiseServices,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&flagConfigDir, "config", "", "config directory (default ~/.pensieve)")
	rootCmd.PersistentFlags().StringVar(
		&flagDataDir, "data-dir", "", "archive directory (default from config)")
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
}

// Execute runs the root command and releases wired services afterwards.
func Execute() error {
	defer runCleanups()
	return rootCmd.Execute()
}

// addCleanup registers a teardown to run after command execution.
func addCleanup(f func()) {
	cleanups = append(cleanups, f)
}

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// skipWiring reports whether a command runs without the service stack.
func skipWiring(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion":
			return true
		}
	}
	return false
}

// initialiseServices builds the full adapter stack from configuration.
// Connectivity problems with the embedding or LLM backends are reported
// as warnings; the command itself decides whether it can proceed.
func initialiseServices(cmd *cobra.Command, _ []string) error {
	if wired || skipWiring(cmd) {
		return nil
	}

	logger.SetVerbose(flagVerbose)
	logger.SetOutput(cmd.ErrOrStderr())

	cfg, err := configfile.New(flagConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = cfg

	dataDir, err := resolveDataDir(cfg)
	if err != nil {
		return err
	}

	// Embedding backend and the archive it feeds.
	embedder, err := ai.CreateEmbeddingService(cfg)
	if err != nil {
		return fmt.Errorf("embedding service: %w", err)
	}
	embeddingService = embedder
	addCleanup(func() { embedder.Close() })

	index, err := flat.New(embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("vector index: %w", err)
	}

	store, err := archive.New(dataDir, embedder, index)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	entryStore = store
	addCleanup(func() { store.Close() })

	// Run ledger, exclusions, and scheduler state share one database.
	db, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	runStore = db.RunStore()
	exclusionStore = db.ExclusionStore()
	addCleanup(func() { db.Close() })

	llm, err := ai.CreateLLMService(cfg)
	if err != nil {
		return fmt.Errorf("llm service: %w", err)
	}
	llmService = llm
	if llm != nil {
		addCleanup(func() { llm.Close() })
	}

	registry := buildConnectorRegistry(cfg)
	connectorRegistry = registry
	addCleanup(func() { registry.Close() })

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	timezone := cfg.String("timezone.name")

	ingestOrchestrator = services.NewIngestOrchestrator(
		registry,
		normalisers.Defaults(),
		pipeline,
		store,
		exclusionStore,
		runStore,
		timezone,
	)
	searchService = services.NewSearchService(store)
	entryService = services.NewEntryService(store)

	outDir, err := expandPath(cfg.String("export.output_dir"))
	if err != nil {
		return fmt.Errorf("export directory: %w", err)
	}
	if outDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home: %w", err)
		}
		outDir = filepath.Join(home, "lifelog")
	}
	exportService = services.NewExportService(store, markdown.NewWriter(outDir), timezone)

	summary := services.NewSummaryService(store, llm)
	if prompts, err := configfile.NewPromptStore(filepath.Join(filepath.Dir(cfg.Path()), "prompts")); err == nil {
		summary.SetPromptStore(prompts)
	}
	summaryService = summary

	schedulerConfig = buildSchedulerConfig(cfg)
	schedulerService = services.NewScheduler(schedulerConfig, db.SchedulerStore(), ingestOrchestrator)

	// Backend reachability is a warning: offline commands still work.
	if err := ai.PingEmbedding(embedder); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	if err := ai.PingLLM(llm); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	wired = true
	return nil
}

// resolveDataDir picks the archive directory from the flag, the config,
// or the platform default, in that order.
func resolveDataDir(cfg driven.ConfigStore) (string, error) {
	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.String("store.data_dir")
	}
	dataDir, err := expandPath(dataDir)
	if err != nil {
		return "", fmt.Errorf("data directory: %w", err)
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share", "pensieve")
	}
	return dataDir, nil
}

// buildConnectorRegistry registers every enabled vendor connector.
// Sources default to enabled; API keys fall back to the environment
// (LIMITLESS_API_KEY, BEE_API_KEY) when the config leaves them empty.
func buildConnectorRegistry(cfg driven.ConfigStore) *connectors.Registry {
	registry := connectors.NewRegistry()

	if sourceEnabled(cfg, domain.SourceLimitless) {
		registry.Register(limitless.New(limitless.Config{
			BaseURL: cfg.String("sources.limitless.base_url"),
			APIKey:  sourceAPIKey(cfg, domain.SourceLimitless, vendorEnvVars[domain.SourceLimitless]),
		}))
	}

	if sourceEnabled(cfg, domain.SourceBee) {
		registry.Register(bee.New(bee.Config{
			BaseURL: cfg.String("sources.bee.base_url"),
			APIKey:  sourceAPIKey(cfg, domain.SourceBee, vendorEnvVars[domain.SourceBee]),
		}))
	}

	if dir, err := expandPath(cfg.String("sources.exportdir.path")); err == nil && dir != "" {
		registry.Register(exportdir.New(dir))
	}

	return registry
}

// sourceEnabled reads sources.<name>.enabled, defaulting to true when
// the key is absent so a fresh install syncs without editing config.
func sourceEnabled(cfg driven.ConfigStore, source string) bool {
	if v, ok := cfg.Lookup("sources." + source + ".enabled"); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return true
}

// sourceAPIKey reads sources.<name>.api_key with an environment fallback.
func sourceAPIKey(cfg driven.ConfigStore, source, envVar string) string {
	if key := cfg.String("sources." + source + ".api_key"); key != "" {
		return key
	}
	return os.Getenv(envVar)
}

// buildPipeline assembles the post-processing pipeline. Only chunking
// keys present in the config are passed through so the chunker keeps
// its own defaults for the rest.
func buildPipeline(cfg driven.ConfigStore) (driven.PostProcessorPipeline, error) {
	chunkCfg := map[string]any{}
	for cfgKey, buildKey := range map[string]string{
		"ingest.chunk_size":      "chunk_size",
		"ingest.chunk_overlap":   "overlap",
		"ingest.chunk_threshold": "threshold",
	} {
		if v, ok := cfg.Lookup(cfgKey); ok {
			chunkCfg[buildKey] = v
		}
	}

	chunker, err := postprocessors.Build("chunker", chunkCfg)
	if err != nil {
		return nil, err
	}
	return postprocessors.NewPipeline(chunker), nil
}

// buildSchedulerConfig reads the scheduler section of the config file.
// A missing or unparseable interval falls back to the built-in default.
func buildSchedulerConfig(cfg driven.ConfigStore) domain.SchedulerConfig {
	schedCfg := domain.SchedulerConfig{
		Enabled:  cfg.Bool("scheduler.enabled"),
		Interval: domain.DefaultSyncInterval,
	}
	if raw := cfg.String("scheduler.interval"); raw != "" {
		if interval, err := time.ParseDuration(raw); err == nil && interval > 0 {
			schedCfg.Interval = interval
		}
	}
	return schedCfg
}

// expandPath resolves a leading ~ to the user home directory.
func expandPath(path string) (string, error) {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
