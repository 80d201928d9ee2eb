package cmd

import (
	"github.com/spf13/cobra"
)

func newConnectCmd() *cobra.Command {
	var uri string
	c := &cobra.Command{
		Use:   "connect",
		Short: "Sample a database and print the inferred collection schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := post(cmd.Context(), "/api/connect", map[string]string{"mongoURI": uri})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	c.Flags().StringVar(&uri, "uri", "", "MongoDB connection string (defaults to the server's configured URI)")
	return c
}
