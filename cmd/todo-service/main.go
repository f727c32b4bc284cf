package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Bhavishyakolloori/todolist-v1/todoservice"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "todo-service",
		Short:        "Serve the to-do list web application",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return todoservice.Run()
		},
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:          "schema",
		Short:        "Create the database indexes or tables and exit",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return todoservice.Schema(cmd.Context())
		},
	})

	// Errors are already logged as JSON by the service.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
