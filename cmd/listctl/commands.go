package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foxxcyber/voicelist/internal/models"
)

// sayCmd interprets one utterance
var sayCmd = &cobra.Command{
	Use:   "say <words...>",
	Short: "Interpret a command such as \"add two apples\" or \"find soap under 50\"",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		command := models.Command{Owner: owner, Transcript: strings.Join(args, " "), Lang: lang}
		dispatch := s.engine.Dispatcher.Dispatch
		if local {
			dispatch = s.engine.Dispatcher.DispatchLocal
		}

		res, err := dispatch(ctx, command)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, res)
		}
		printResult(out, res)
		return nil
	},
}

// showCmd prints the list
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the list grouped by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.engine.Store.RenderOwner(ctx, owner)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, list)
		}
		printList(out, list)
		return nil
	},
}

// clearCmd erases the list
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.engine.Store.Clear(ctx, owner); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "List cleared.")
		return nil
	},
}

// historyCmd prints purchase counts
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show how often each item has been added",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		h, err := s.engine.Store.History(ctx, owner)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, h)
		}
		printHistory(out, h)
		return nil
	},
}

// recsCmd prints recommendations
var recsCmd = &cobra.Command{
	Use:   "recs",
	Short: "Suggest frequently bought items that are not on the list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.engine.Store.Recommendations(ctx, owner, recLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, recs)
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "No recommendations yet.")
			return nil
		}
		for _, r := range recs {
			fmt.Fprintf(out, "  %-24s bought %d\n", r.Name, r.Count)
		}
		return nil
	},
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
