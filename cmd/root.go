package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/llm"
	"github.com/joescharf/seva/internal/output"
	"github.com/joescharf/seva/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "seva",
	Short: "Seva - citizen grievance portal",
	Long: `seva records citizen grievances: pick a department, describe the issue,
attach photos, and track what has been reported on a dashboard.

Run 'seva tui' for the interactive portal or 'seva serve' for the web UI and API.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	defer closeStore()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeStore()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return dashboardRun(viper.GetInt("dashboard.preview"))
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/seva/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "seva")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SEVA")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	setDefaults()

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

// setDefaults registers a default for every config key.
func setDefaults() {
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "seva")

	viper.SetDefault("state_dir", defaultConfigDir)
	viper.SetDefault("store.driver", "memory")
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "seva.db"))
	viper.SetDefault("port", 8080)
	viper.SetDefault("dashboard.preview", 5)
	viper.SetDefault("form.id_scheme", "ulid")
	viper.SetDefault("classifier.provider", "random")
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// Initialize store lazily, only when commands actually need it.
	// This allows config/version commands to run without a db.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	driver := viper.GetString("store.driver")
	dbPath := viper.GetString("db_path")
	s, err := store.Open(context.Background(), driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	ui.VerboseLog("Using %s store", driver)

	dataStore = s
	return dataStore, nil
}

func closeStore() {
	if dataStore != nil {
		_ = dataStore.Close()
		dataStore = nil
	}
}

// newClassifier returns the image classifier selected by classifier.provider.
// The anthropic provider falls back to random labels when no API key is set.
func newClassifier() (intake.Classifier, error) {
	switch provider := viper.GetString("classifier.provider"); provider {
	case "", "random":
		return intake.NewRandomClassifier(), nil
	case "anthropic":
		client := newLLMClient()
		if client == nil {
			ui.Warning("classifier.provider is anthropic but no API key is set; using random labels")
			return intake.NewRandomClassifier(), nil
		}
		return llm.NewClassifier(client, intake.DetectionLabels), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider: %s (use: random, anthropic)", provider)
	}
}

// newAssembler returns a form assembler using the configured ID scheme.
func newAssembler() (*form.Assembler, error) {
	ids, err := form.NewIDGenerator(viper.GetString("form.id_scheme"))
	if err != nil {
		return nil, err
	}
	a := form.NewAssembler()
	a.IDs = ids
	return a, nil
}
