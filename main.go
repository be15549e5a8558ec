package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/klauspost/compress/gzip"

	"toonconv/internal/config"
	"toonconv/internal/converter"
	"toonconv/internal/errors"
	"toonconv/internal/models"
	"toonconv/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       []string `help:"Path(s) to input JSON file(s). If not specified, reads from stdin." short:"i" type:"path"`
	Output      string   `help:"Path to output TOON file. If not specified, writes to stdout." short:"o" type:"path"`
	Indent      *int     `help:"Spaces per indentation level (0-8)."`
	Delimiter   string   `help:"Array delimiter: comma, tab, or pipe." short:"d"`
	Compact     bool     `help:"Compact output instead of pretty-printed." short:"c"`
	Quote       string   `help:"String quoting strategy: smart, always, or never."`
	NoMarker    bool     `help:"Omit element counts from array headers."`
	MaxDepth    *int     `help:"Maximum nesting depth before conversion is rejected."`
	ByteLimit   *int64   `help:"Maximum input size in bytes."`
	Timeout     *string  `help:"Maximum conversion time, e.g. 30s or 5m." short:"t"`
	KeyCase     string   `help:"Rewrite object keys: snake, camel, kebab, or screaming_snake."`
	NoValidate  bool     `help:"Skip output validation."`
	NoSchema    bool     `help:"Skip array schema collection in metadata."`
	Stats       bool     `help:"Print conversion statistics to stderr." short:"s"`
	Compress    bool     `help:"Gzip the output file (requires -o)." short:"z"`
	Config      string   `help:"Path to a config file." type:"path"`
	Profile     string   `help:"Configuration profile: small, large, or batch." short:"p"`
	Verbose     bool     `help:"Print progress detail to stderr."`
	Quiet       bool     `help:"Suppress informational messages." short:"q"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	kongParser := kong.Must(&CLI,
		kong.Name("toonconv"),
		kong.Description("A tool to convert JSON to TOON, a compact indentation-based format"),
		kong.UsageOnError(),
	)

	// No arguments at all drops into interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := kongParser.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("toonconv version %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: toonconv --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	// A .gz output path implies compression
	if strings.HasSuffix(CLI.Output, ".gz") {
		CLI.Compress = true
	}
	if CLI.Compress && CLI.Output == "" && len(CLI.Input) <= 1 {
		return errors.NewConfigError("--compress requires an output file (-o)", nil)
	}

	if CLI.Verbose {
		fmt.Fprintf(os.Stderr, "indent=%d delimiter=%s pretty=%t validate=%t max-depth=%d\n",
			cfg.Indent, cfg.Delimiter, cfg.Pretty, cfg.Validate, cfg.MaxDepth)
	}

	// Batch mode: several input files convert independently
	if len(CLI.Input) > 1 {
		return runBatch(cfg)
	}

	stats := converter.NewStatistics()

	result, err := convertSingle(cfg)
	if err != nil {
		return err
	}
	stats.Record(result)

	if err := writeOutput(result.Content); err != nil {
		return err
	}

	if CLI.Stats {
		printStats(stats, result)
	}
	return nil
}

// convertSingle produces one result from a file, piped stdin, or the
// interactive prompt.
func convertSingle(cfg *config.Config) (*converter.Result, error) {
	if len(CLI.Input) == 1 {
		return converter.ConvertFile(CLI.Input[0], cfg)
	}

	root, size, err := parseStdin()
	if err != nil {
		return nil, err
	}
	return converter.Convert(root, cfg, size)
}

// runBatch converts each input file in turn, continuing past failures.
func runBatch(cfg *config.Config) error {
	if CLI.Output != "" {
		return errors.NewConfigError("-o cannot be used with multiple input files; outputs are written next to each input", nil)
	}

	items, stats := converter.ConvertFiles(CLI.Input, cfg)
	for _, item := range items {
		if item.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", item.Path, errors.UserFriendlyError(item.Err))
			continue
		}
		outPath := outputPathFor(item.Path)
		if err := writeFile(outPath, item.Result.Content); err != nil {
			return err
		}
	}

	if CLI.Stats {
		fmt.Fprintln(os.Stderr, stats.Summary())
	}
	if stats.FailureCount > 0 {
		return errors.NewOutputError(
			fmt.Sprintf("%d of %d file(s) failed to convert", stats.FailureCount, stats.OperationCount), nil)
	}
	return nil
}

// outputPathFor derives the batch output path from an input path.
func outputPathFor(inputPath string) string {
	base := strings.TrimSuffix(inputPath, ".json")
	if CLI.Compress {
		return base + ".toon.gz"
	}
	return base + ".toon"
}

// resolveConfig layers CLI flags over the config file or profile.
func resolveConfig() (*config.Config, error) {
	overrides := config.CLIOverrides{
		Indent:    CLI.Indent,
		Delimiter: CLI.Delimiter,
		Compact:   CLI.Compact,
		Quote:     CLI.Quote,
		MaxDepth:  CLI.MaxDepth,
		ByteLimit: CLI.ByteLimit,
		NoMarker:  CLI.NoMarker,
		KeyCase:   CLI.KeyCase,
	}
	if CLI.Timeout != nil {
		d, err := time.ParseDuration(*CLI.Timeout)
		if err != nil {
			return nil, errors.NewConfigError(
				fmt.Sprintf("invalid timeout '%s'", *CLI.Timeout), err)
		}
		overrides.Timeout = &d
	}

	cfg, err := config.LoadConfigWithCLI(CLI.Config, CLI.Profile, overrides)
	if err != nil {
		return nil, err
	}
	if CLI.NoValidate {
		cfg.Validate = false
	}
	if CLI.NoSchema {
		cfg.IncludeSchema = false
	}
	return cfg, nil
}

// parseStdin reads JSON from piped stdin or the interactive prompt.
func parseStdin() (models.Value, int64, error) {
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Value{}, 0, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return models.Value{}, 0, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Value{}, 0, errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return models.Value{}, 0, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	root, err := parser.ParseString(string(jsonData))
	return root, int64(len(jsonData)), err
}

// writeOutput writes the converted content to the output file or stdout.
func writeOutput(content string) error {
	if CLI.Output != "" {
		if err := writeFile(CLI.Output, content); err != nil {
			return err
		}
		if !CLI.Quiet {
			fmt.Fprintf(os.Stderr, "TOON output written to %s\n", CLI.Output)
		}
		return nil
	}

	if _, err := fmt.Println(content); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// writeFile writes content to path, gzipping when --compress is set.
func writeFile(path, content string) error {
	if !CLI.Compress {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create file '%s'", path), err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		gz.Close()
		return errors.NewOutputError(fmt.Sprintf("failed to write compressed output to '%s'", path), err)
	}
	if err := gz.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to finish compressed output to '%s'", path), err)
	}
	return nil
}

// printStats reports the run on stderr so stdout stays clean for output.
func printStats(stats *converter.Statistics, result *converter.Result) {
	fmt.Fprintln(os.Stderr, stats.Summary())
	if result.Metadata.Schema != nil {
		fmt.Fprintf(os.Stderr, "arrays: %d total, %d tabular\n",
			result.Metadata.Schema.ArrayCount, len(result.Metadata.Schema.UniformArrays))
		for _, s := range result.Metadata.Schema.UniformArrays {
			var cols []string
			for _, f := range s.Fields {
				cols = append(cols, f.Name+":"+f.TypeString())
			}
			fmt.Fprintf(os.Stderr, "  [%d]{%s}\n", s.ElementCount, strings.Join(cols, ","))
		}
	}
	if result.Metadata.Validation != nil {
		for _, issue := range result.Metadata.Validation.Issues {
			fmt.Fprintf(os.Stderr, "validation %s: %s\n", issue.Severity, issue.Message)
		}
	}
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Value, int64, error) {
	fmt.Fprintln(os.Stderr, "toonconv Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			jsonBuilder.WriteString(line)
			break
		}
		if err != nil {
			return models.Value{}, 0, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Value{}, 0, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	root, err := parser.ParseString(jsonData)
	return root, int64(len(jsonData)), err
}
