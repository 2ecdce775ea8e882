package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/anitrack/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, field values, and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := "config.toml"
	if len(args) > 0 {
		path = args[0]
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if msgs := cfg.Validate(); len(msgs) > 0 {
		fmt.Println("Validation errors:")
		for _, m := range msgs {
			fmt.Printf("  - %s\n", m)
		}
		return fmt.Errorf("configuration invalid")
	}

	printConfigSummary(cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigSummary(cfg *config.Config) {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Server:    %s:%d (log: %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.LogLevel)
	fmt.Printf("  Database:  %s\n", cfg.Database.Path)

	catalog := cfg.Catalog.URL
	if cfg.Catalog.AccessToken != "" {
		catalog += " (authenticated)"
	}
	fmt.Printf("  Catalog:   %s, cache %dh\n", catalog, cfg.Catalog.CacheHours)

	details := []string{}
	if cfg.Import.DefaultUsername != "" {
		details = append(details, "default user "+cfg.Import.DefaultUsername)
	}
	if len(details) > 0 {
		fmt.Printf("  Import:    %s\n", strings.Join(details, ", "))
	}
}
