package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
)

var placesJSON bool

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Print the built-in place catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		places := model.Places()
		if placesJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(places)
		}
		for _, p := range places {
			cmd.Printf("%-22s %s  %s\n", p.Name, p.Coordinate, p.Description)
		}
		return nil
	},
}

func init() {
	placesCmd.Flags().BoolVar(&placesJSON, "json", false, "JSONで出力する")
	rootCmd.AddCommand(placesCmd)
}
