package main

import "SchemaFlow/client/schemaflow-cli/cmd"

func main() {
	cmd.Execute()
}
