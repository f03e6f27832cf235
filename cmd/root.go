// Package cmd implements the command-line interface for godiscover.
// It provides the root command and subcommands for discovering and
// extracting site content.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/godiscover/cmd/discover"
	"github.com/jonesrussell/godiscover/cmd/extract"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug logging for all commands.
	Debug bool

	rootCmd = &cobra.Command{
		Use:   "godiscover",
		Short: "A content URL discovery crawler",
		Long:  `Discovers content URLs on websites using layered fetch strategies, from feeds and static markup up to full browser rendering.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	_ = godotenv.Load()

	// Parse flags early so the debug flag is visible before logger creation
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("godiscover version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(discover.Command())
	rootCmd.AddCommand(extract.Command())
}

// initConfig reads the config file and environment variables.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; defaults and environment variables cover
	// everything it would set.
	_ = viper.ReadInConfig()

	if err := bindFlags(); err != nil {
		return err
	}
	if err := bindEnvVars(); err != nil {
		return err
	}

	if Debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
		Debug = true
	}

	return nil
}

func bindFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}

func bindEnvVars() error {
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("discover.sites_file", "DISCOVER_SITES_FILE"); err != nil {
		return fmt.Errorf("failed to bind DISCOVER_SITES_FILE: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":  "godiscover",
		"debug": false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
	})

	viper.SetDefault("discover", map[string]any{
		"max_pages":        5,
		"strategy_timeout": "90s",
		"sites_file":       "",
	})
}
