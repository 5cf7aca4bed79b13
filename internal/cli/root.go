package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootDirFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "defscan",
	Short: "Scan C and C++ sources for structural type definitions",
	Long: `Defscan finds struct, class, union, and enum definitions in C and C++
source trees without preprocessing or compiling them.

It tolerates adversarial input: definitions faked inside strings, comments,
raw string literals, and macro bodies are never reported, and files with
unbalanced braces still produce partial results with diagnostics.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDirFlag, "root", "C", "", "project root directory (default: current directory)")
}

// resolveRoot returns the absolute project root for this invocation. A
// positional path argument wins over the --root flag.
func resolveRoot(args ...string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return filepath.Abs(args[0])
	}
	if rootDirFlag != "" {
		return filepath.Abs(rootDirFlag)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
