package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-fitness-sync/internal/outbox"
	"github.com/tbourn/go-fitness-sync/internal/services"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "data",
	Short:   "Create the local store and apply migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		fmt.Fprintln(cmd.OutOrStdout(), st.Path())
		return nil
	},
}

var queueCmd = &cobra.Command{
	Use:     "queue",
	GroupID: "data",
	Short:   "Inspect or discard pending sync items",
}

var queueJSON bool

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending sync items in push order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		items, err := outbox.New(st).ListPending(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if queueJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tOP\tTABLE\tRECORD\tQUEUED\tATTEMPTS\tLAST ERROR")
		for _, it := range items {
			lastErr := ""
			if it.LastError != nil {
				lastErr = *it.LastError
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
				it.ID, it.Operation, it.Table, it.PayloadField("id"),
				time.UnixMilli(it.EnqueuedAt).Format(time.RFC3339),
				it.Attempts, lastErr)
		}
		return tw.Flush()
	},
}

var queueYes bool

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard every pending sync item",
	Long:  "Discard every pending sync item. Unsynced changes stay on this device but are never pushed.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !queueYes {
			return fmt.Errorf("refusing to discard the queue without --yes")
		}
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		n, err := outbox.New(st).Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "discarded %d item(s)\n", n)
		return nil
	},
}

var statsUser string

var statsCmd = &cobra.Command{
	Use:     "stats",
	GroupID: "data",
	Short:   "Compute statistics from the local store",
}

var statsStreaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Print the current and longest training streaks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()

		uid := statsUser
		if uid == "" {
			uid = cfg.Sync.UserID
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		streaks, err := services.NewStatsService(st, nil).Streaks(cmd.Context(), uid)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "current %d day(s), longest %d day(s)\n", streaks.Current, streaks.Longest)
		return nil
	},
}

func init() {
	queueListCmd.Flags().BoolVar(&queueJSON, "json", false, "print items as JSON")
	queueClearCmd.Flags().BoolVarP(&queueYes, "yes", "y", false, "confirm discarding unsynced changes")
	queueCmd.AddCommand(queueListCmd, queueClearCmd)

	statsStreaksCmd.Flags().StringVarP(&statsUser, "user", "u", "", "user id (defaults to USER_ID)")
	statsCmd.AddCommand(statsStreaksCmd)
}
