package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/amrgaberm/codesense/internal/application"
	appreview "github.com/amrgaberm/codesense/internal/application/review"
	domai "github.com/amrgaberm/codesense/internal/domain/ai"
	"github.com/amrgaberm/codesense/internal/domain/language"
	domain "github.com/amrgaberm/codesense/internal/domain/review"
	aifactory "github.com/amrgaberm/codesense/internal/infra/ai"
	"github.com/amrgaberm/codesense/internal/output"
)

var (
	flagProvider string
	flagModel    string
	flagType     string
	flagFormat   string
	flagOut      string
	flagVerbose  bool
)

// Directories skipped during recursive walks.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"venv":         true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

var reviewCmd = &cobra.Command{
	Use:   "review <path>",
	Short: "Review a file or directory for issues",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runReview(args[0])
	},
}

func init() {
	reviewCmd.Flags().StringVarP(&flagType, "type", "t", "full", "Review type: full, security, quick")
	reviewCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Output format: text, json, markdown")
	reviewCmd.Flags().StringVarP(&flagOut, "output", "o", "", "Save results to file")
	reviewCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (groq, openai, ollama)")
	reviewCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	reviewCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show detailed output")
}

func newService() (*appreview.Service, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	client, err := aifactory.New(settings.aiConfig())
	if err != nil {
		return nil, err
	}
	return &appreview.Service{Client: client, Clock: application.SystemClock{}}, nil
}

func runReview(path string) {
	svc, err := newService()
	if err != nil {
		if errors.Is(err, domai.ErrNoCredentials) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			exitCode = ExitConfigError
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeErr
		return
	}

	files, err := collectFiles(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeErr
		return
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No supported files found to review.")
		return
	}
	if flagVerbose {
		fmt.Fprintf(os.Stderr, "Reviewing %d file(s)...\n", len(files))
	}

	result, err := svc.ReviewPaths(context.Background(), files, domain.ParseType(flagType))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeErr
		return
	}

	if err := output.WriteResult(result, formatFromOut(), flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeErr
		return
	}

	if result.SeverityBreakdown().Critical > 0 {
		exitCode = ExitFindings
	}
}

// formatFromOut infers the format from the output extension when a
// file path is given, flag wins otherwise.
func formatFromOut() string {
	if flagOut != "" && flagFormat == "text" {
		switch strings.ToLower(filepath.Ext(flagOut)) {
		case ".json":
			return "json"
		case ".md":
			return "markdown"
		}
	}
	return flagFormat
}

func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != path && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if language.Supported(p) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

var checkLanguage string

var checkCmd = &cobra.Command{
	Use:   "check <code>",
	Short: "Quick check a code snippet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService()
		if err != nil {
			if errors.Is(err, domai.ErrNoCredentials) {
				fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
				exitCode = ExitConfigError
				return
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeErr
			return
		}

		fr, err := svc.ReviewCode(context.Background(), args[0], "", checkLanguage, domain.TypeQuick)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeErr
			return
		}

		result := &domain.ReviewResult{ID: uuid.New().String()[:8]}
		result.AddFileReview(*fr)
		result.OverallScore = domain.Score(result.SeverityBreakdown())

		if err := output.WriteResult(result, "text", ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeErr
		}
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkLanguage, "language", "l", "", "Programming language")
}
