package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/client"
	"github.com/mmynk/splitshare/internal/service"
	"github.com/mmynk/splitshare/internal/session"
)

type ledgerOptions struct {
	people    []string
	assign    []string
	remote    bool
	sheet     string
	sheetName string
	markers   bool
}

func newLedgerCommand(root *rootOptions) *cobra.Command {
	opts := &ledgerOptions{}
	cmd := &cobra.Command{
		Use:   "ledger <payload.json>",
		Short: "Split an extracted order and print the ledger",
		Example: `  splitctl ledger order.json --person Alice --person Bob --assign 2=Alice
  splitctl ledger order.json -p Alice -p Bob --sheet https://docs.google.com/spreadsheets/d/<id>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read payload: %w", err)
			}
			assignments, err := parseAssignments(opts.assign)
			if err != nil {
				return err
			}

			c := client.New(root.server)
			var table calculator.Table
			if opts.remote {
				resp, err := c.ComputeLedger(cmd.Context(), &service.ComputeLedgerRequest{
					Participants: opts.people,
					Payload:      payload,
					Assignments:  assignments,
				})
				if err != nil {
					return err
				}
				table = resp.Table
			} else {
				sess, err := newSession(payload, opts.people, assignments)
				if err != nil {
					return err
				}
				table = sess.Table()
			}

			if err := renderTable(cmd.OutOrStdout(), table); err != nil {
				return err
			}
			if opts.sheet == "" {
				return nil
			}

			values := table.Values()
			if opts.markers {
				values = table.MarkedValues()
			}
			updates, err := c.WriteSheet(cmd.Context(), opts.sheet, opts.sheetName, values)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", updates.UpdatedRows, updates.UpdatedRange)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&opts.people, "person", "p", nil, "Participant name (repeatable, column order)")
	cmd.Flags().StringArrayVarP(&opts.assign, "assign", "a", nil, "Item assignment N=Name[,Name...] with 1-based item N (repeatable)")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "Compute the ledger on the server")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Spreadsheet URL or id to append the ledger to")
	cmd.Flags().StringVar(&opts.sheetName, "sheet-name", "", "Sheet to append to (default Sheet1)")
	cmd.Flags().BoolVar(&opts.markers, "markers", false, "Export bold cells as **text**")
	return cmd
}

func newSession(payload []byte, people []string, assignments map[int][]string) (*session.Session, error) {
	sess := session.New()
	for _, p := range people {
		if _, err := sess.AddParticipant(p); err != nil {
			return nil, err
		}
	}
	if _, err := sess.LoadExtraction(payload); err != nil {
		return nil, err
	}
	if err := sess.AssignAll(assignments); err != nil {
		return nil, err
	}
	return sess, nil
}

var errAssignment = errors.New("assignment must look like N=Name[,Name...]")

// parseAssignments turns "2=Alice,Bob" flags into zero-based item indexes.
// A later flag for the same item replaces an earlier one.
func parseAssignments(flags []string) (map[int][]string, error) {
	out := make(map[int][]string, len(flags))
	for _, f := range flags {
		num, list, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errAssignment, f)
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad item number in %q", errAssignment, f)
		}

		var names []string
		for _, name := range strings.Split(list, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		out[n-1] = names
	}
	return out, nil
}
