// Package main provides the CLI entry point for mddesigner-go.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/models"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/output"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

// logLevelEnv overrides the log level (debug, info, warn, error).
const logLevelEnv = "MDDESIGNER_LOG_LEVEL"

var (
	rulePath   string
	outputPath string
	format     string
	pretty     bool
	verbose    bool
	sheetsDir  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mddesigner [input.md]",
		Short: "Convert Markdown test designs into spreadsheets",
		Long: `mddesigner-go converts a structured Markdown document (sheets, headings,
lists) into a spreadsheet whose blocks and columns are described by a YAML rule.`,
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&rulePath, "rule", "r", "", "Rule file path (default: built-in rule)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: input name for xlsx, stdout for json)")
	rootCmd.Flags().StringVar(&format, "format", "xlsx", "Output format: xlsx, json")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet JSON files")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	logger := newLogger()
	slog.SetDefault(logger)

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	outFormat, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	r := rule.Default()
	if rulePath != "" {
		logger.Info("parsing rule", "path", rulePath)
		if r, err = rule.LoadFile(rulePath); err != nil {
			return err
		}
	}

	opts := mddesigner.Options{
		Format: outFormat,
		Pretty: pretty,
		Logger: logger,
	}

	data, err := mddesigner.ConvertFile(inputPath, r, opts)
	if err != nil {
		return err
	}

	switch {
	case outputPath != "":
		if _, err := mddesigner.Export(data, outputPath, opts); err != nil {
			return err
		}
	case outFormat == output.FormatExcel:
		name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		if _, err := mddesigner.Export(data, name, opts); err != nil {
			return err
		}
	case sheetsDir == "":
		jsonData, err := output.ToJSON(data, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Println(string(jsonData))
	}

	// Write per-sheet files
	if sheetsDir != "" {
		if err := writeSheetFiles(data, sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}

	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if v, ok := os.LookupEnv(logLevelEnv); ok && v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			level = l
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func writeSheetFiles(data *models.Data, dir string) error {
	names, err := sheetFileNames(data.Sheets)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i, sheet := range data.Sheets {
		jsonData, err := output.SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, names[i])
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

// sheetFileNames returns one file name per sheet. Names that collide after
// sanitizing, ignoring case, are an error.
func sheetFileNames(sheets []models.Sheet) ([]string, error) {
	names := make([]string, 0, len(sheets))
	seen := make(map[string]struct{}, len(sheets))
	for i, sheet := range sheets {
		name := sheet.SheetName()
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		name = strings.NewReplacer("/", "_", "\\", "_").Replace(name) + ".json"

		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate sheet file name %q", name)
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
