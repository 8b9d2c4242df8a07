// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/slate/internal/bootstrap"
	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/core/lock"
	"github.com/taibuivan/slate/internal/core/option"
	"github.com/taibuivan/slate/internal/platform/config"
)

// optionRow is the printed form of an option.
type optionRow struct {
	ID     string            `json:"id" yaml:"id"`
	Name   string            `json:"name" yaml:"name"`
	Detail string            `json:"detail,omitempty" yaml:"detail,omitempty"`
	Notes  string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Dates  string            `json:"dates" yaml:"dates"`
	Locked bool              `json:"locked" yaml:"locked"`
	Extra  map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

func rowOf(o *option.Option) optionRow {
	return optionRow{
		ID:     o.ID,
		Name:   o.Name,
		Detail: o.Detail,
		Notes:  o.Notes,
		Dates:  availability.Format(o.Availability),
		Locked: o.Locked,
		Extra:  o.Extra,
	}
}

// session is a connected registry and coordinator built from the environment.
type session struct {
	deps        *bootstrap.Deps
	registry    *option.Registry
	coordinator *lock.Coordinator
}

func openSession(ctx context.Context, cmd *cobra.Command, migrate bool) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

	deps, err := bootstrap.Open(ctx, cfg, logger, bootstrap.Options{SkipMigrations: !migrate})
	if err != nil {
		return nil, err
	}

	registry, coordinator := deps.Services(cfg, logger)
	return &session{deps: deps, registry: registry, coordinator: coordinator}, nil
}

func resourceKey(kind, id string) (option.ResourceKey, error) {
	parsed, err := option.ParseKind(kind)
	if err != nil {
		return option.ResourceKey{}, err
	}
	return option.ResourceKey{Kind: parsed, ID: id}, nil
}

func newOptionsCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Manage the options of a character or location",
		Long:  "Reads the same environment as the API server (OPTION_BACKEND, UPSTREAM_URL, DATABASE_URL, LOCK_STORE, ...).",
	}

	cmd.PersistentFlags().BoolVar(&migrate, "migrate", false, "run database migrations first (OPTION_BACKEND=postgres)")

	cmd.AddCommand(newOptionsListCmd(&migrate))
	cmd.AddCommand(newOptionsAddCmd(&migrate))
	cmd.AddCommand(newOptionsRemoveCmd(&migrate))
	cmd.AddCommand(newOptionsLockCmd(&migrate))
	return cmd
}

func newOptionsListCmd(migrate *bool) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list <kind> <resourceID>",
		Short: "List options in backend order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resourceKey(args[0], args[1])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cmd, *migrate)
			if err != nil {
				return err
			}
			defer s.deps.Close()

			options, err := s.registry.ListOptions(cmd.Context(), key)
			if err != nil {
				return err
			}

			rows := make([]optionRow, 0, len(options))
			for _, o := range options {
				rows = append(rows, rowOf(o))
			}

			if output != outputTable {
				return writeStructured(cmd.OutOrStdout(), output, rows)
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No options found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "S.NO.\tID\tNAME\tDATES\tLOCKED")
			for i, row := range rows {
				locked := ""
				if row.Locked {
					locked = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, row.ID, row.Name, row.Dates, locked)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, yaml, json)")
	return cmd
}

func newOptionsAddCmd(migrate *bool) *cobra.Command {
	var (
		name   string
		detail string
		notes  string
		dates  string
		extra  map[string]string
		output string
	)

	cmd := &cobra.Command{
		Use:   "add <kind> <resourceID>",
		Short: "Add an option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resourceKey(args[0], args[1])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cmd, *migrate)
			if err != nil {
				return err
			}
			defer s.deps.Close()

			created, err := s.registry.AddOption(cmd.Context(), key, &option.Draft{
				Name:         name,
				Detail:       detail,
				Notes:        notes,
				Extra:        extra,
				Availability: s.deps.Parser.Parse(dates),
			})
			if err != nil {
				return err
			}

			return writeStructured(cmd.OutOrStdout(), output, rowOf(created))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "actor or location name (required)")
	cmd.Flags().StringVar(&detail, "detail", "", "actor details or location address")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&dates, "dates", availability.NoConstraint, "availability text")
	cmd.Flags().StringToStringVar(&extra, "extra", nil, "additional fields (key=value,...)")
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format (yaml, json)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newOptionsRemoveCmd(migrate *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <kind> <resourceID> <optionID>...",
		Short: "Remove one or more options",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resourceKey(args[0], args[1])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cmd, *migrate)
			if err != nil {
				return err
			}
			defer s.deps.Close()

			result, err := s.registry.BulkRemove(cmd.Context(), key, args[2:])
			if err != nil {
				return err
			}

			for _, id := range result.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			}
			for _, failure := range result.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %s (%s)\n", failure.ID, failure.Error, failure.Code)
			}
			if result.Refresh != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: option list not re-read: %s (%s)\n", result.Refresh.Error, result.Refresh.Code)
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d of %d removals failed", len(result.Failed), len(result.Failed)+len(result.Removed))
			}
			return nil
		},
	}
	return cmd
}

func newOptionsLockCmd(migrate *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock <kind> <resourceID> <optionID>",
		Short: "Toggle the lock on an option",
		Long:  "Locks the option (unlocking any other option of the resource), or unlocks it if it is already locked. Only meaningful with LOCK_STORE=redis or LOCK_STORE=upstream.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resourceKey(args[0], args[1])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cmd, *migrate)
			if err != nil {
				return err
			}
			defer s.deps.Close()

			state, err := s.coordinator.Toggle(cmd.Context(), key, args[2])
			if err != nil {
				return err
			}

			if state.Locked {
				fmt.Fprintf(cmd.OutOrStdout(), "%s locked on %s\n", key, state.OptionID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s unlocked\n", key)
			}
			return nil
		},
	}
	return cmd
}
