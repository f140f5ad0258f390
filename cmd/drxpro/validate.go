package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sumitdasdk/DRX-pro/fixture"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the fixture document has every value the scenarios need",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := v.GetString("fixtures")
		if path == "" {
			path = fixture.RepositoryPath()
		}

		doc, err := fixture.Load(path)
		if err != nil {
			return err
		}
		if err := doc.Validate(); err != nil {
			return fmt.Errorf("%s:\n%w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
