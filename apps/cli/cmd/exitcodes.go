package cmd

import (
	"github.com/hoppscotch/hopp-cli/packages/clierror"
)

// Exit codes for the hopp CLI
const (
	// ExitSuccess indicates all requests passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more requests failed
	ExitTestFailure = 1

	// ExitParseError indicates a document or template parsing error
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	code, ok := clierror.CodeOf(err)
	if !ok {
		return ExitUsageError
	}
	switch code {
	case clierror.CodeTestsFailing:
		return ExitTestFailure
	case clierror.CodeParsingError, clierror.CodeFileNotFound, clierror.CodeFileNotJSON,
		clierror.CodeMalformedCollection, clierror.CodeMalformedEnvFile, clierror.CodeBulkEnvFile:
		return ExitParseError
	case clierror.CodeInvalidArgument:
		return ExitConfigError
	case clierror.CodeServerConnectionRefused, clierror.CodeInvalidServerURL,
		clierror.CodeTokenExpired, clierror.CodeTokenInvalid:
		return ExitNetworkError
	}
	// Structured remote reasons outside the built-in set are network
	// failures by construction.
	return ExitNetworkError
}
