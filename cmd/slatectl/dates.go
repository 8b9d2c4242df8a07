// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/slate/internal/core/availability"
)

func newDatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Availability text tools",
	}

	cmd.AddCommand(newDatesParseCmd())
	cmd.AddCommand(newDatesContainsCmd())
	return cmd
}

func parserFor(missing string) (availability.Parser, error) {
	policy, err := availability.ParseMissingPolicy(missing)
	if err != nil {
		return availability.Parser{}, err
	}
	return availability.Parser{Missing: policy}, nil
}

func newDatesParseCmd() *cobra.Command {
	var (
		output  string
		missing string
	)

	cmd := &cobra.Command{
		Use:   "parse <dates>",
		Short: "Show how availability text is read",
		Long:  "Parses availability text (\"No constraint\" or \"MM/DD/YYYY, MM/DD/YYYY - MM/DD/YYYY\") and prints the days, ranges, canonical text and any rejected range tokens.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := parserFor(missing)
			if err != nil {
				return err
			}
			parsed, rejected := parser.ParseDetailed(args[0])
			return writeStructured(cmd.OutOrStdout(), output, availability.Describe(parsed, rejected))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format (yaml, json)")
	cmd.Flags().StringVar(&missing, "missing", "flexible", "how blank text is read (flexible, empty)")
	return cmd
}

func newDatesContainsCmd() *cobra.Command {
	var missing string

	cmd := &cobra.Command{
		Use:   "contains <dates> <YYYY-MM-DD>",
		Short: "Report whether availability text covers a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := parserFor(missing)
			if err != nil {
				return err
			}
			day, err := time.ParseInLocation(time.DateOnly, args[1], time.UTC)
			if err != nil {
				return fmt.Errorf("invalid day %q: want YYYY-MM-DD", args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), parser.Parse(args[0]).Contains(day))
			return nil
		},
	}

	cmd.Flags().StringVar(&missing, "missing", "flexible", "how blank text is read (flexible, empty)")
	return cmd
}
