package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRelationshipsCmd() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "relationships",
		Short: "Infer relationships for the schemas in a JSON file",
		Long:  `The file holds either an array of {name, fields} schemas or an object with a "schemas" key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas, err := readSchemas(file)
			if err != nil {
				return err
			}
			rels, err := post(cmd.Context(), "/api/relationships", map[string]interface{}{"schemas": schemas})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rels)
		},
	}
	c.Flags().StringVar(&file, "file", "", "path to a JSON file with schemas")
	_ = c.MarkFlagRequired("file")
	return c
}

// readSchemas 读取 schema 文件，只校验外层结构，字段内容交给服务端处理。
func readSchemas(path string) ([]json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var schemas []json.RawMessage
		if err := json.Unmarshal(raw, &schemas); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return schemas, nil
	}

	var wrapped struct {
		Schemas []json.RawMessage `json:"schemas"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if wrapped.Schemas == nil {
		return nil, fmt.Errorf("%s: no schemas found", path)
	}
	return wrapped.Schemas, nil
}
