package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cours-de-latin/interpres"
)

var userdbCmd = &cobra.Command{
	Use:   "userdb",
	Short: "Manage the SQLite user lexicon",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if userDB == "" {
			return errors.New("--userdb is required")
		}
		return nil
	},
}

var userdbAddCmd = &cobra.Command{
	Use:   "add <word|TAG|stem|categories|entities|attrs>...",
	Short: "Add or replace lexicon rows",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := make([]*interpres.Entry, 0, len(args))
		for _, a := range args {
			e, err := interpres.ParseEntry(a)
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		db, err := interpres.OpenUserLexicon(userDB)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, e := range entries {
			if err := db.Add(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "added", e.String())
		}
		return nil
	},
}

var userdbRemoveCmd = &cobra.Command{
	Use:   "remove <word> <TAG>",
	Short: "Remove one lexicon row",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := interpres.ParseTag(args[1])
		if err != nil {
			return err
		}
		db, err := interpres.OpenUserLexicon(userDB)
		if err != nil {
			return err
		}
		defer db.Close()
		ok, err := db.Remove(cmd.Context(), args[0], tag)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no row for %s|%s", args[0], tag)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "removed", args[0]+"|"+tag.String())
		return nil
	},
}

var userdbListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every row in lexicon.txt format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := interpres.OpenUserLexicon(userDB)
		if err != nil {
			return err
		}
		defer db.Close()
		entries, err := db.Entries(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), e.String())
		}
		return nil
	},
}

func init() {
	userdbCmd.AddCommand(userdbAddCmd, userdbRemoveCmd, userdbListCmd)
}
