package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/dkravchenko/swotstat/internal/accumulator"
	"github.com/dkravchenko/swotstat/internal/config"
	"github.com/dkravchenko/swotstat/internal/errors"
	"github.com/dkravchenko/swotstat/internal/models"
	"github.com/dkravchenko/swotstat/internal/parser"
	"github.com/dkravchenko/swotstat/internal/report"
)

// CLI defines the command-line interface
var CLI struct {
	Input     string `help:"Path to the SWOT JSON report. If not specified, reads from stdin." short:"i" type:"path"`
	OutputDir string `help:"Directory for generated artifacts." short:"o"`
	SourceID  string `help:"Source identifier recorded in artifact metadata. Defaults to the input file name."`
	Config    string `help:"Path to a swotstat config file." short:"c" type:"path"`
	NoExcel   bool   `help:"Skip the Excel workbook and produce only the JSON artifact."`
	Pretty    bool   `help:"Indent the JSON artifact." default:"true" negatable:""`
	Debug     bool   `help:"Enable debug logging." short:"d"`
	Version   bool   `help:"Show version information." short:"v"`
}

// Version information
const (
	Version = "0.1.0"
)

// Result describes what one extraction run produced.
type Result struct {
	Outcome   report.Outcome
	JSONPath  string
	ExcelPath string
}

func main() {
	parser := kong.Must(&CLI,
		kong.Name("swotstat"),
		kong.Description("Extracts normalized statistics from SWOT JSON reports"),
		kong.UsageOnError(),
	)

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("swotstat version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Dev.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	result, err := run(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: swotstat --help\n")
		os.Exit(1)
	}

	logger.Info("extraction finished",
		zap.String("outcome", result.Outcome.String()),
		zap.String("json", result.JSONPath),
		zap.String("excel", result.ExcelPath),
	)
}

// run executes the extraction pipeline: parse, accumulate, synthesize,
// persist. The returned Result carries the outcome tag: Full when both
// artifacts landed, JSONOnly when the workbook was skipped or failed.
func run(cfg *config.Config, logger *zap.Logger) (Result, error) {
	doc, sourceID, err := parseInput(cfg)
	if err != nil {
		return Result{Outcome: report.OutcomeFailed}, err
	}

	rec := accumulator.Extract(doc.Root, logger)
	if !rec.HasAny() {
		logger.Warn("no statistics found in document", zap.String("source", sourceID))
	}

	synth := report.NewSynthesizer(logger)
	now := time.Now()
	artifact := synth.Document(rec, report.Provenance{SourceID: sourceID, CreatedAt: now})
	data, err := synth.EncodeJSON(artifact, cfg.Pretty)
	if err != nil {
		return Result{Outcome: report.OutcomeFailed}, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Result{Outcome: report.OutcomeFailed},
			errors.NewOutputError(fmt.Sprintf("failed to create output directory '%s'", cfg.OutputDir), err)
	}

	jsonPath := filepath.Join(cfg.OutputDir, report.ArtifactName(sourceID, now, ".json"))
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return Result{Outcome: report.OutcomeFailed},
			errors.NewOutputError(fmt.Sprintf("failed to write '%s'", jsonPath), err)
	}
	result := Result{Outcome: report.OutcomeJSONOnly, JSONPath: jsonPath}
	logger.Info("JSON artifact written", zap.String("path", jsonPath))

	if !cfg.Excel {
		logger.Info("workbook disabled, producing JSON artifact only")
		return result, nil
	}

	wb, err := synth.Workbook(rec)
	if err != nil {
		logger.Warn("workbook unavailable, degrading to JSON-only output", zap.Error(err))
		return result, nil
	}
	excelPath := filepath.Join(cfg.OutputDir, report.ArtifactName(sourceID, now, ".xlsx"))
	if err := wb.SaveAs(excelPath); err != nil {
		logger.Warn("failed to save workbook, degrading to JSON-only output",
			zap.String("path", excelPath), zap.Error(err))
		return result, nil
	}

	result.Outcome = report.OutcomeFull
	result.ExcelPath = excelPath
	logger.Info("workbook written", zap.String("path", excelPath))
	return result, nil
}

// loadConfig resolves the effective configuration: defaults, then the
// config file (explicit or discovered), then CLI overrides.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, errors.NewInputError(fmt.Sprintf("failed to load config '%s'", path), err)
		}
		cfg = loaded
	}

	if CLI.OutputDir != "" {
		cfg.OutputDir = CLI.OutputDir
	}
	if CLI.SourceID != "" {
		cfg.SourceID = CLI.SourceID
	}
	if CLI.NoExcel {
		cfg.Excel = false
	}
	if !CLI.Pretty {
		cfg.Pretty = false
	}
	if CLI.Debug {
		cfg.Dev.Debug = true
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// parseInput reads the report from file or stdin and derives the source
// identifier recorded in artifact metadata.
func parseInput(cfg *config.Config) (models.Document, string, error) {
	if CLI.Input != "" {
		doc, err := parser.ParseFile(CLI.Input)
		if err != nil {
			return models.Document{}, "", err
		}
		return doc, sourceIDFor(cfg, CLI.Input), nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, "", errors.NewInputError("failed to access stdin", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal without piped input
		return models.Document{}, "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return models.Document{}, "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	doc, err := parser.ParseString(string(jsonData))
	if err != nil {
		return models.Document{}, "", err
	}
	return doc, sourceIDFor(cfg, ""), nil
}

func sourceIDFor(cfg *config.Config, inputPath string) string {
	if cfg.SourceID != "" {
		return cfg.SourceID
	}
	if inputPath == "" {
		return "stdin"
	}
	return strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
}
