package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var uri, out string
	c := &cobra.Command{
		Use:   "analyze",
		Short: "Sample a database, infer relationships and lay out the diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			diagram, err := post(cmd.Context(), "/api/analyze", map[string]string{"mongoURI": uri})
			if err != nil {
				return err
			}
			if out == "" {
				return printJSON(cmd.OutOrStdout(), diagram)
			}

			var summary struct {
				Collections   []json.RawMessage `json:"collections"`
				Relationships []json.RawMessage `json:"relationships"`
			}
			if err := json.Unmarshal(diagram, &summary); err != nil {
				return fmt.Errorf("decode diagram: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := printJSON(f, diagram); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d collections and %d relationships to %s\n",
				len(summary.Collections), len(summary.Relationships), out)
			return nil
		},
	}
	c.Flags().StringVar(&uri, "uri", "", "MongoDB connection string (defaults to the server's configured URI)")
	c.Flags().StringVar(&out, "out", "", "write the diagram JSON to this file instead of stdout")
	return c
}
