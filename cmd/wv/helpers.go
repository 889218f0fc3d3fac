package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wikivault/wikivault/internal/config"
	"github.com/wikivault/wikivault/internal/types"
)

// Exit codes: 1 generic, 2 validation, 3 not found, 4 permission.
func exitCode(err error) int {
	switch {
	case types.IsValidation(err):
		return 2
	case types.IsNotFound(err):
		return 3
	case types.IsPermission(err):
		return 4
	default:
		return 1
	}
}

// exitWithError prints the error (JSON when requested) and exits with
// the code for its kind.
func exitWithError(err error) {
	if jsonOutput {
		outputJSON(map[string]string{"error": err.Error()})
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// FatalError prints an error message to stderr and exits with code 1.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorRespectJSON is like FatalError but emits a JSON error object
// when --json is set.
func FatalErrorRespectJSON(format string, args ...interface{}) {
	if jsonOutput {
		outputJSON(map[string]string{"error": fmt.Sprintf(format, args...)})
		os.Exit(1)
	}
	FatalError(format, args...)
}

// outputJSON marshals data with indentation and prints it to stdout.
func outputJSON(data interface{}) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

// principal resolves the acting user and roles from flags, config, and
// environment.
func principal() types.Principal {
	return types.Principal{
		User:  config.GetActor(actorFlag),
		Roles: config.GetRoles(rolesFlag),
	}
}
