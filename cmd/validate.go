package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/cosmic/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configuration is valid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			ui.New().Error(err.Error())
			return err
		}
		ui.New().ConfigValid(viper.ConfigFileUsed())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
