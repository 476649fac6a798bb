package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitshare/internal/client"
)

func newTestSheetCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test-sheet <url-or-id>",
		Short: "Check that the server can reach a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client.New(root.server).TestSheet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected: %s (%s)\nSheets: %s\n", s.Title, s.SpreadsheetID, strings.Join(s.Sheets, ", "))
			return nil
		},
	}
}
