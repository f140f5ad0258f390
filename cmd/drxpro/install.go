package main

import (
	"github.com/spf13/cobra"

	"github.com/sumitdasdk/DRX-pro/browser"
)

var installCmd = &cobra.Command{
	Use:   "install [browser...]",
	Short: "Download the browser engine driver and browsers",
	Long:  `Install downloads the engine driver and the named browsers, or all supported browsers when none are named.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return browser.Install(args...)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
