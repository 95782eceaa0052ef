package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/stocktake/internal/cmd/globals"
	"github.com/agentstation/stocktake/internal/cmd/output"
	"github.com/agentstation/stocktake/pkg/logging"
)

var (
	configFile  string
	globalFlags *globals.Flags

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
	// BuiltBy is the build system identifier.
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stocktake",
	Short: "Inventory snapshot cleaning and reconciliation",
	Long: `Stocktake reconciles two time-separated inventory snapshots into a
single diff report.

Each snapshot is cleaned independently first: column names are harmonized,
SKUs are normalized, quantities are parsed and rounded, and every corrective
action is recorded as a structured data-quality issue. The cleaned snapshots
are then joined per SKU and each row is classified as unchanged, quantity
changed, added, or removed.`,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date, builtBy string) {
	// Set version information
	Version = version
	Commit = commit
	Date = date
	BuiltBy = builtBy

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.stocktake.yaml)")
	globalFlags = globals.AddFlags(rootCmd)

	// Bind flags to viper
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".stocktake" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stocktake")
	}

	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up environment variable handling
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && globalFlags != nil && globalFlags.Verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// setupCommand is called before any command runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	// Setup output format based on terminal detection
	if globalFlags.Output == "" {
		globalFlags.Output = string(output.DetectFormat(""))
	}

	return nil
}

// configureLogging sets up the logging system based on configuration.
func configureLogging() {
	level := zerolog.InfoLevel
	if globalFlags != nil && globalFlags.Verbose || viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if globalFlags != nil && globalFlags.Quiet || viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	config := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		NoColor:   globalFlags != nil && globalFlags.NoColor,
		AddCaller: level <= zerolog.DebugLevel,
	}

	if config.Format == "" {
		config.Format = "auto"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	logging.Configure(config)
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			if globalFlags != nil && globalFlags.Verbose {
				fmt.Fprintf(os.Stderr, "Loaded %s\n", envFile)
			}
		}
	}
}
