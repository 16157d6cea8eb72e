package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/floorplan-go/pkg/floorplan"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/models"
)

func newExtractCmd() *cobra.Command {
	var (
		pattern string
		grid    float64
		noDedup bool
	)

	cmd := &cobra.Command{
		Use:   "extract [input.svg | folder]",
		Short: "Extract room labels from an SVG file or a folder of SVG files",
		Long: `Extract resolves the drawing coordinates of room-number labels.

For a single file the output is a JSON array of {"text", "x", "y"} objects.
For a folder every .svg file is processed and the output maps each file
name to its array. Files that are not well-formed XML are reported and
yield an empty array.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			inputPath := args[0]

			info, err := os.Stat(inputPath)
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", inputPath)
			}
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts := cfg.Options()
			opts.Logger = logger
			if cmd.Flags().Changed("pattern") {
				opts.LabelPattern = pattern
			}
			if cmd.Flags().Changed("grid") {
				opts.GridStep = grid
			}
			if noDedup {
				off := false
				opts.Dedup = &off
			}

			prog := newProgress(logger)

			if !info.IsDir() {
				labels, err := floorplan.Extract(inputPath, opts)
				if errors.Is(err, floorplan.ErrInvalidFormat) {
					logger.Error("failed to parse", "file", inputPath, "err", err)
					labels = []models.Label{}
				} else if err != nil {
					return fmt.Errorf("extraction failed: %w", err)
				}
				if err := writeOutput(labels); err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Extracted %d labels", len(labels)))
				return nil
			}

			c, err := openCache(ctx, cfg.Cache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer c.Close()
			opts.Cache = c

			batch, err := floorplan.ExtractDir(ctx, inputPath, opts)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			if err := writeOutput(batch); err != nil {
				return err
			}

			total, empty := 0, 0
			for _, labels := range batch {
				total += len(labels)
				if len(labels) == 0 {
					empty++
				}
			}
			printSuccess("Extracted %d labels from %d files", total, len(batch))
			if empty > 0 {
				printWarning("%d files produced no labels", empty)
			}
			prog.done("Batch complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Regular expression for room labels (default: 3-5 digits plus up to 2 capitals)")
	cmd.Flags().Float64Var(&grid, "grid", 0, "Rounding step for duplicate detection (default 0.5)")
	cmd.Flags().BoolVar(&noDedup, "no-dedup", false, "Keep overlapping duplicate labels")

	return cmd
}
