package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"repolens/internal/analysis"
	"repolens/internal/cache"
	"repolens/internal/config"
	"repolens/internal/explorer"
	"repolens/internal/fetch"
	"repolens/internal/logging"
	"repolens/internal/session"
	"repolens/internal/version"
)

var (
	rootFlag     string
	githubFlag   string
	providerFlag string
	formatFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "repolens - interactive codebase exploration engine",
	Long: `repolens builds a navigable dependency graph over a codebase: a lazily
expanded file tree, per-file symbol trees from code analysis, import and call
edges between them, and flow-path queries over the result. Exploration state
persists as sessions and is restored automatically when the same project is
loaded again.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("repolens version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Project root directory (also holds .repolens state)")
	rootCmd.PersistentFlags().StringVar(&githubFlag, "github", "", "Explore a GitHub repo instead of the local root (owner/repo@ref)")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Analysis provider override (openai, local)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "json", "Output format (json, human)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level override (debug, info, warn, error)")
}

func newLogger(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return logging.New(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.Level(level),
	})
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load(rootFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if providerFlag != "" {
		cfg.Analysis.Provider = providerFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// engine bundles the wired explorer with the resources behind it
type engine struct {
	explorer *explorer.Explorer
	store    *session.FileStore
	db       *cache.DB
	logger   *logging.Logger
}

func (e *engine) close() {
	e.explorer.Close()
	if e.db != nil {
		e.db.Close()
	}
}

// restoreTracker is process-wide; one CLI invocation is one process, so an
// explicit "session open" after an auto-restore still works.
var restoreTracker = session.NewRestoreTracker()

// mustGetEngine wires cache, fetchers, analyzer and session store into a
// loaded explorer, exiting on any setup failure.
func mustGetEngine() *engine {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	workDir := filepath.Join(rootFlag, config.WorkDirName)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating work directory: %v\n", err)
		os.Exit(1)
	}

	db, err := cache.Open(workDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		os.Exit(1)
	}
	c := cache.New(db)

	store, err := session.NewFileStore(filepath.Join(workDir, "sessions"), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session store: %v\n", err)
		os.Exit(1)
	}

	source, err := buildSource(cfg, c, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	analyzer := buildAnalyzer(cfg, c, logger)
	exp := explorer.New(explorer.Options{
		Analyzer: analyzer,
		Sessions: store,
		Tracker:  restoreTracker,
		Logger:   logger,
	})

	if err := exp.Load(newContext(), source); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading project: %v\n", err)
		exp.Close()
		db.Close()
		os.Exit(1)
	}

	// Relevance results are only valid for the loaded file set.
	analyzer.SetRepoHash(exp.ProjectSignature())

	return &engine{explorer: exp, store: store, db: db, logger: logger}
}

func buildSource(cfg *config.Config, c *cache.Cache, logger *logging.Logger) (explorer.Source, error) {
	if githubFlag == "" {
		return explorer.NewLocalSource(fetch.NewLocal(rootFlag)), nil
	}

	spec := githubFlag
	ref := "main"
	if at := strings.LastIndex(spec, "@"); at >= 0 {
		ref = spec[at+1:]
		spec = spec[:at]
	}
	owner, repo, ok := strings.Cut(spec, "/")
	if !ok || owner == "" || repo == "" || ref == "" {
		return nil, fmt.Errorf("invalid --github value %q, want owner/repo@ref", githubFlag)
	}

	gh := fetch.NewGitHub(c, logger, fetch.GitHubOptions{
		APIBase: cfg.Fetch.GithubAPIBase,
		Token:   os.Getenv(cfg.Fetch.GithubTokenEnv),
		Timeout: fetchTimeout(cfg),
	})
	return explorer.NewGitHubSource(gh, owner, repo, ref), nil
}

// buildAnalyzer selects the configured provider and wraps it in the caching
// decorator. The repo hash for relevance gating is bound after load.
func buildAnalyzer(cfg *config.Config, c *cache.Cache, logger *logging.Logger) *analysis.Cached {
	var inner analysis.Service
	switch cfg.Analysis.Provider {
	case "local":
		if !analysis.SitterAvailable() {
			fmt.Fprintln(os.Stderr, "Error: local provider requires a cgo-enabled build")
			os.Exit(1)
		}
		inner = analysis.NewSitter()
	default:
		inner = analysis.NewOpenAI(logger, analysis.OpenAIOptions{
			APIKey:  os.Getenv(cfg.Analysis.APIKeyEnv),
			BaseURL: cfg.Analysis.BaseURL,
			Model:   cfg.Analysis.Model,
		})
	}

	return analysis.NewCached(inner, c, logger, analysis.CachedOptions{
		AnalysisTTL:  secondsToDuration(cfg.Cache.AnalysisTTLSeconds),
		RelevanceTTL: secondsToDuration(cfg.Cache.RelevanceTTLSeconds),
	})
}
