package converter

import (
	"fmt"
	"io"
	"os"
	"time"

	"toonconv/internal/analyzer"
	"toonconv/internal/config"
	"toonconv/internal/errors"
	"toonconv/internal/generator"
	"toonconv/internal/guard"
	"toonconv/internal/models"
	"toonconv/internal/parser"
	"toonconv/internal/validator"
)

// Metadata describes one completed conversion.
type Metadata struct {
	// InputSize is the JSON input size in bytes. For trees built
	// programmatically it is an estimate.
	InputSize int64
	// OutputSize is the emitted TOON size in bytes.
	OutputSize int64
	// TokenReduction is the size saving as a percentage, floored at zero.
	TokenReduction float64
	// Duration is the wall-clock conversion time.
	Duration time.Duration
	// Schema summarizes the arrays found in the input, when enabled.
	Schema *analyzer.SchemaSummary
	// Validation holds the validator's findings, when enabled.
	Validation *validator.Report
}

// Result is the outcome of one conversion.
type Result struct {
	Content  string
	Metadata Metadata
}

// Convert runs the full pipeline on an already-parsed tree: key rewriting,
// the guard pass, emission, then validation. inputSize is the source byte
// count used for the size gate and the reduction figure; pass 0 when
// unknown to skip the gate.
func Convert(root models.Value, cfg *config.Config, inputSize int64) (*Result, error) {
	start := time.Now()

	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	if cfg.ByteLimit > 0 && inputSize > cfg.ByteLimit {
		return nil, errors.NewInputError(
			"input exceeds the configured size limit",
			&errors.TooLargeError{Size: inputSize, Limit: cfg.ByteLimit},
		)
	}

	caseFn, err := keyCaseFor(cfg.KeyCase)
	if err != nil {
		return nil, err
	}
	if caseFn != nil {
		root = RewriteKeys(root, caseFn)
	}

	if cfg.MaxDepth > 0 {
		if err := guard.Check(root, cfg.MaxDepth); err != nil {
			return nil, err
		}
	}

	quote, _ := generator.ParseQuoteMode(cfg.Quote)
	opts := generator.Options{
		IndentWidth:  cfg.Indent,
		Delimiter:    cfg.Delimiter.Rune(),
		LengthMarker: cfg.LengthMarker,
		Quote:        quote,
		Pretty:       cfg.Pretty,
	}
	if cfg.Timeout > 0 {
		opts.Deadline = start.Add(cfg.Timeout.Std())
		opts.TimeLimit = cfg.Timeout.Std()
	}

	content, err := generator.New(opts).Emit(root)
	if err != nil {
		return nil, err
	}

	meta := Metadata{
		InputSize:  inputSize,
		OutputSize: int64(len(content)),
		Duration:   time.Since(start),
	}
	meta.TokenReduction = tokenReduction(meta.InputSize, meta.OutputSize)

	if cfg.IncludeSchema {
		meta.Schema = analyzer.CollectSchemas(root)
	}

	if cfg.Validate {
		report := validator.Validate(content, root)
		meta.Validation = report
		if err := validator.Strict(report); err != nil {
			return nil, err
		}
	}

	return &Result{Content: content, Metadata: meta}, nil
}

// ConvertString parses and converts a JSON string.
func ConvertString(jsonInput string, cfg *config.Config) (*Result, error) {
	size := int64(len(jsonInput))
	if cfg.ByteLimit > 0 && size > cfg.ByteLimit {
		return nil, errors.NewInputError(
			"input exceeds the configured size limit",
			&errors.TooLargeError{Size: size, Limit: cfg.ByteLimit},
		)
	}
	root, err := parser.ParseString(jsonInput)
	if err != nil {
		return nil, err
	}
	return Convert(root, cfg, size)
}

// ConvertReader reads the whole input, then parses and converts it. The
// size gate applies while reading, so an over-limit stream stops early
// instead of buffering without bound.
func ConvertReader(r io.Reader, cfg *config.Config) (*Result, error) {
	var data []byte
	var err error
	if cfg.ByteLimit > 0 {
		data, err = io.ReadAll(io.LimitReader(r, cfg.ByteLimit+1))
		if err == nil && int64(len(data)) > cfg.ByteLimit {
			return nil, errors.NewInputError(
				"input exceeds the configured size limit",
				&errors.TooLargeError{Size: int64(len(data)), Limit: cfg.ByteLimit},
			)
		}
	} else {
		data, err = io.ReadAll(r)
	}
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}

	root, err := parser.ParseString(string(data))
	if err != nil {
		return nil, err
	}
	return Convert(root, cfg, int64(len(data)))
}

// ConvertFile parses and converts a JSON file. The size gate runs on the
// file's stat size before any parsing work happens.
func ConvertFile(path string, cfg *config.Config) (*Result, error) {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	if cfg.ByteLimit > 0 && size > cfg.ByteLimit {
		return nil, errors.NewInputError(
			fmt.Sprintf("file '%s' exceeds the configured size limit", path),
			&errors.TooLargeError{Size: size, Limit: cfg.ByteLimit},
		)
	}

	root, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Convert(root, cfg, size)
}

// tokenReduction returns the percentage saved going from input to output,
// floored at zero so growth never reads as negative savings.
func tokenReduction(inputSize, outputSize int64) float64 {
	if inputSize <= 0 {
		return 0
	}
	reduction := float64(inputSize-outputSize) / float64(inputSize) * 100
	if reduction < 0 {
		return 0
	}
	return reduction
}
