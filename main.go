// =============================================================================
// Transaction Widget - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Transaction Widget CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   widget process        - Show, convert and report bank operations
//   widget descriptions   - Print operation descriptions
//   widget cards          - Generate formatted card numbers
//   widget version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (masking, filters, validation, conversion)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/transaction-widget/cmd"
)

func main() {
	cmd.Execute()
}
