package cmd

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/policyvote/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "policyvote",
	Short: "Vote on and moderate classroom policy proposals",
	Long: `policyvote is the client for the classroom policy-voting service.
Students browse proposals, vote once per device and submit their own
ideas; admins triage submissions; the superuser manages accounts.

Live vote counts and status changes stream in while ` + "`policyvote watch`" + ` runs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(0)
		if verbose {
			log.SetOutput(cmd.ErrOrStderr())
		} else {
			log.SetOutput(io.Discard)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
