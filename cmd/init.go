package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure the server and preferences with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the server URL, language and theme and writes .policyvote.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
