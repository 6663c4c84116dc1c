// Package cmd implements the cosmic command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/cosmic/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "cosmic",
	Short: "Harmonize conflicting distance measurements across a synthetic star catalog",
	Long: `Cosmic generates a reproducible catalog of synthetic celestial objects, each
measured by three missions (hubble, gaia, jwst), and reconciles the measurements
into one fused distance under an adjustable trust-weight vector.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .cosmic.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int("count", 0, "number of catalog records (default from config)")
	rootCmd.PersistentFlags().Int64("seed", 0, "catalog seed (default from config)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("catalog.count", rootCmd.PersistentFlags().Lookup("count"))
	_ = viper.BindPFlag("catalog.seed", rootCmd.PersistentFlags().Lookup("seed"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".cosmic")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.BindEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
