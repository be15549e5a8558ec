package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"toonconv/internal/errors"
	"toonconv/internal/models"
)

// Parse converts JSON data from an io.Reader into a models.Value tree.
//
// A token-streaming decoder is used instead of json.Unmarshal so that object
// key order is preserved: Go maps would scramble it, and TOON output is
// defined over the source's insertion order.
func Parse(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Numbers stay as json.Number until canonicalization

	root, err := parseValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return models.Value{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		return models.Value{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Anything after the first value means the input is not a single document.
	if decoder.More() {
		return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}
	if _, err := decoder.Token(); err != io.EOF {
		if err == nil {
			return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
		return models.Value{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	return root, nil
}

// parseValue consumes one complete JSON value from the decoder.
func parseValue(decoder *json.Decoder) (models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return models.Value{}, err
	}
	return valueFromToken(decoder, tok)
}

func valueFromToken(decoder *json.Decoder, tok json.Token) (models.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(decoder)
		case '[':
			return parseArray(decoder)
		default:
			return models.Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return models.StringValue(t), nil
	case json.Number:
		return models.NumberValue(t), nil
	case bool:
		return models.BoolValue(t), nil
	case nil:
		return models.NullValue(), nil
	default:
		return models.Value{}, fmt.Errorf("unexpected token type %T", tok)
	}
}

// parseObject consumes tokens after an opening '{' up to the matching '}'.
// Duplicate keys follow JSON semantics: the later value wins and the earlier
// entry is removed, keeping keys unique while preserving last-seen order.
func parseObject(decoder *json.Decoder) (models.Value, error) {
	var fields []models.Field
	seen := make(map[string]int)

	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return models.Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}

		val, err := parseValue(decoder)
		if err != nil {
			return models.Value{}, err
		}

		if idx, dup := seen[key]; dup {
			fields = append(fields[:idx], fields[idx+1:]...)
			for k, i := range seen {
				if i > idx {
					seen[k] = i - 1
				}
			}
		}
		seen[key] = len(fields)
		fields = append(fields, models.Field{Key: key, Value: val})
	}

	// Consume the closing '}'
	if _, err := decoder.Token(); err != nil {
		return models.Value{}, err
	}
	return models.ObjectValue(fields), nil
}

// parseArray consumes tokens after an opening '[' up to the matching ']'.
func parseArray(decoder *json.Decoder) (models.Value, error) {
	items := []models.Value{}
	for decoder.More() {
		val, err := parseValue(decoder)
		if err != nil {
			return models.Value{}, err
		}
		items = append(items, val)
	}
	if _, err := decoder.Token(); err != nil {
		return models.Value{}, err
	}
	return models.ArrayValue(items), nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Value{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
