package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
	debug     bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "todoctl",
		Short:        "Command-line client for a running to-do list server",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	defaultURL := getEnv("TODOCTL_SERVER", "http://localhost:3000")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultURL, "Base URL of the to-do server")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug output")

	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newTUICmd())
	return rootCmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [LIST]",
		Short: "Print a list's items with their IDs (default: Today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := todayList
			if len(args) == 1 {
				list = args[0]
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			p, err := newTodoClient(serverURL, timeout).Show(ctx, list)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			st := newStyles(out)
			fmt.Fprintln(out, st.title.Render(p.ListTitle))
			for _, it := range p.NewListItems {
				fmt.Fprintf(out, "  %s  %s\n", st.muted.Render(it.ID), it.Name)
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an item to a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			loc, err := newTodoClient(serverURL, timeout).Add(ctx, list, args[0])
			if err != nil {
				return err
			}
			log.Debug().Str("list", list).Str("location", loc).Msg("item added")
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", args[0], loc)
			return nil
		},
	}
	cmd.Flags().StringVarP(&list, "list", "l", todayList, "List name; exactly \"Today\" targets the Today list")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an item from a list by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			loc, err := newTodoClient(serverURL, timeout).Delete(ctx, list, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", args[0], loc)
			return nil
		},
	}
	cmd.Flags().StringVarP(&list, "list", "l", todayList, "List name")
	return cmd
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
