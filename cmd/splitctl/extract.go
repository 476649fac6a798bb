package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitshare/internal/client"
	"github.com/mmynk/splitshare/internal/page"
)

func newExtractCommand(root *rootOptions) *cobra.Command {
	var pageURL, output string
	cmd := &cobra.Command{
		Use:   "extract <page.html>",
		Short: "Extract the order from a saved page",
		Long: "Sends a saved order page to the server for extraction and writes the raw\n" +
			"extraction payload to --output, or stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := page.Load(args[0], pageURL)
			if err != nil {
				return err
			}

			got, err := client.New(root.server).ExtractOrder(cmd.Context(), content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Found %d items on %s\n", got.ItemsFound, orUnknown(content.Domain))

			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(got.Raw, '\n'))
				return err
			}
			return os.WriteFile(output, got.Raw, 0o600)
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "URL the page was saved from")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write the payload to")
	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown page"
	}
	return s
}
