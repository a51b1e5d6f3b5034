package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/blameshare/core"
	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/internal/iocache"
	"github.com/huangsam/blameshare/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. Execute replaces it with
// one that is canceled on interrupt.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// gitClient is the blame backend selected by the validated config.
var gitClient contract.GitClient

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// stdout may carry the report or the MCP protocol
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd blames every file of a repository and writes each contributor's share.
var rootCmd = &cobra.Command{
	Use:   "blameshare <repo-path> <output-file>",
	Short: "Compute each contributor's share of the lines in a Git repository.",
	Long: `Blameshare runs line-level blame over every file of a repository and reports
how many lines each contributor owns, with their percentage of the whole tree.

The report is written atomically to <output-file>, or to stdout when it is "-".

Examples:
  # Shares of the current checkout as CSV
  blameshare . shares.csv

  # Shares at a tag, largest owners first, as a table on stdout
  blameshare --rev v1.2.0 --sort lines --format text . -

  # Only a subtree, blamed in-process with 8 workers
  blameshare --blame-backend gogit --workers 8 ./internal internal.json --format json

A repository directory named like a subcommand (cache, history, mcp, version)
must be given as a path, for example "blameshare ./history out.csv".`,
	Version:            version,
	Args:               cobra.ExactArgs(2),
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PreRunE:            sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := core.ExecuteReport(rootCtx, cfg, gitClient, cacheManager); err != nil {
			return fmt.Errorf("cannot build report: %w", err)
		}
		return nil
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("BLAMESHARE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("rev", contract.DefaultRevision)
	viper.SetDefault("format", schema.CSVOut)
	viper.SetDefault("sort", schema.SortByAuthor)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("blame-backend", schema.GitBlame)
	viper.SetDefault("source", schema.WalkSource)
	viper.SetDefault("on-blame-error", schema.SkipOnError)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
}

// setConfigFile points viper at --config or the default .blameshare.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".blameshare")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(ctx context.Context, repoPath, outputFile string) error {
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.RepoPathStr = repoPath
	input.OutputFileStr = outputFile

	// 4. Run all validation and complex parsing.
	client := contract.NewGitClient(schema.BlameBackend(strings.ToLower(input.BlameBackend)))
	if err := contract.ProcessAndValidate(ctx, cfg, client, input); err != nil {
		return err
	}
	gitClient = client

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(_ *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, args[0], args[1])
}

// loadConfigFile reads the config file if one is present.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// Execute runs the root command. An interrupt cancels in-flight blame work.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCtx = ctx
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
