package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/merge"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/output"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/parser"
)

func newMergeCmd() *cobra.Command {
	var labelsPath, tablePath string

	cmd := &cobra.Command{
		Use:   "merge --labels labels.json --table rooms.xlsx",
		Short: "Join extracted labels with room metadata from a spreadsheet",
		Long: `Merge joins the output of "extract" with an .xlsx or .csv table by
matching the room identifier column (RoomID, Room ID, RoomId or Room Id)
against label text. Rows without an identifier or without a matching
label are left out. Batch input produces output keyed by file name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			labels, err := output.ReadLabels(labelsPath)
			if err != nil {
				return fmt.Errorf("read labels: %w", err)
			}
			table, err := parser.ReadTable(tablePath)
			if err != nil {
				return fmt.Errorf("read table: %w", err)
			}
			if len(merge.IdentifierColumns(table.Columns)) == 0 {
				printWarning("no room identifier column in %s", tablePath)
			}

			if !labels.IsBatch() {
				st := merge.Summarize(labels.Labels, table)
				logger.Debug("join", "rows", st.Rows, "without_id", st.RowsWithoutID,
					"unmatched_rows", st.UnmatchedRows, "unmatched_labels", st.UnmatchedLabels)
				if err := writeOutput(merge.Join(labels.Labels, table)); err != nil {
					return err
				}
				printSuccess("Merged %d records", st.Records)
				printKeyValue("unmatched rows", st.UnmatchedRows)
				printKeyValue("unmatched labels", st.UnmatchedLabels)
				return nil
			}

			result := merge.JoinBatch(labels.Batch, table)
			if err := writeOutput(result); err != nil {
				return err
			}

			names := make([]string, 0, len(result))
			for name := range result {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				printSuccess("%s: %d records", name, len(result[name]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&labelsPath, "labels", "", "Labels JSON written by extract")
	cmd.Flags().StringVar(&tablePath, "table", "", "Room metadata (.xlsx or .csv)")
	_ = cmd.MarkFlagRequired("labels")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}
