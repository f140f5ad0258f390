package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	drxpro "github.com/sumitdasdk/DRX-pro"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scenario catalogue",
	RunE:  listScenarios,
}

func init() {
	listCmd.Flags().StringSlice("tag", nil, "Only list scenarios with one of these tags")

	rootCmd.AddCommand(listCmd)
}

func listScenarios(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	inst, err := drxpro.NewWithOptions(drxpro.Options{
		FixturePath: v.GetString("fixtures"),
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer inst.Close()

	set, err := inst.Scenarios(drxpro.Selection{Tags: v.GetStringSlice("tag")})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, sc := range set {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", sc.Name, strings.Join(sc.Tags, ","), sc.Description)
	}
	return tw.Flush()
}
