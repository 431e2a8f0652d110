package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoppscotch/hopp-cli/packages/core/collection"
	"github.com/hoppscotch/hopp-cli/packages/core/environment"
)

var checkCmd = &cobra.Command{
	Use:   "check <file...>",
	Short: "Validate collection and environment files without running them",
	Long: `Validate that the given JSON files are well-formed collections or
environments without executing any requests.

Each file is first checked as a collection; files that do not match the
collection shape are checked as an environment.

Examples:
  hopp check collection.json
  hopp check collection.json staging.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: checkCommand,
}

func checkCommand(cmd *cobra.Command, args []string) error {
	var firstErr error
	for _, file := range args {
		kind, err := checkFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid %s: %s\n", kind, file)
	}
	return firstErr
}

func checkFile(path string) (string, error) {
	_, colErr := collection.ReadFile(path, false)
	if colErr == nil {
		return "collection", nil
	}
	if _, envErr := environment.ReadFile(path, false); envErr == nil {
		return "environment", nil
	}
	return "", colErr
}
