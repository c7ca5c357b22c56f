package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

// Exit codes
const (
	ExitSuccess     = 0
	ExitFindings    = 1
	ExitUsageError  = 2
	ExitConfigError = 3
	ExitRuntimeErr  = 4
)

var rootCmd = &cobra.Command{
	Use:   "codesense",
	Short: "AI-powered code review assistant",
	Long:  "CodeSense reviews code for bugs, security issues and best practices using hosted LLM providers.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print codesense version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "codesense version %s\n", version)
	},
}
