// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the coursefmt CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the coursefmt CLI.
var rootCmd = &cobra.Command{
	Use:   "coursefmt",
	Short: "Convert course content between HTML, Markdown and OLX",
	Long: `coursefmt converts course content between three dialects: a flat HTML
document whose hierarchy is implied by heading levels, Markdown (through
pandoc or goldmark), and the Open Learning XML directory layout used by
Open edX.

Conversions go through a shared course tree, so any dialect converts to
any other: coursefmt convert course.md course_olx/`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./coursefmt.yaml or ~/.config/coursefmt/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("coursefmt")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "coursefmt"))
		}
	}

	viper.SetEnvPrefix("COURSEFMT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
