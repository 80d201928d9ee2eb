package cmd

import (
	httpclient "SchemaFlow/backend/go/pkg/http"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
	apiClient *httpclient.Client
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schemaflow-cli",
		Short:         "A CLI client for the SchemaFlow service",
		Long:          `Sample a MongoDB database, infer relationships between its collections and export the diagram, all through a running SchemaFlow server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			apiClient = httpclient.NewClient(timeout, nil)
		},
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "SchemaFlow server base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")

	root.AddCommand(newConnectCmd(), newRelationshipsCmd(), newAnalyzeCmd())
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// post 向服务端发送一个 JSON 请求，返回原始响应体。
func post(ctx context.Context, path string, in interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	if err := apiClient.PostJSON(ctx, strings.TrimRight(serverURL, "/")+path, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
