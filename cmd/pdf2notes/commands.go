package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf2notes/internal/config"
	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the poppler tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			err := a.tools.Check()
			if errors.IsEnvironmentError(err) {
				fmt.Fprintf(out, "✗ Import disabled: %v\n", err)
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ %s\n", strings.Join(a.tools.Names(), ", "))
			return nil
		},
	}
}

func decksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List the decks of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.openCollection(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			decks, err := c.Decks(ctx)
			if err != nil {
				return err
			}
			for _, d := range decks {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", d.ID, d.Name)
			}
			return nil
		},
	}
}

func noteTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notetypes",
		Short: "List the note types of the collection with their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.openCollection(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			types, err := c.NoteTypes(ctx)
			if err != nil {
				return err
			}
			for _, nt := range types {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", nt.ID, nt.Name, nt.Kind, strings.Join(nt.Fields, ", "))
			}
			return nil
		},
	}
}

func configCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config [key [value]]",
		Short: "Show or change the saved settings",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch len(args) {
			case 0:
				for _, k := range config.Keys() {
					v, _ := a.store.Get(k)
					fmt.Fprintf(out, "%s=%s\n", k, v)
				}
				return nil
			case 1:
				v, err := a.store.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, v)
				return nil
			}
			if err := a.store.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Load(a.store).Validate(); err != nil {
				return err
			}
			return a.store.Save()
		},
	}
}
