package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser decodes a resource file into language -> key -> value.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]map[string]any, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, content []byte) (map[string]map[string]any, error)

func (f ParserFunc) Parse(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	return f(ctx, content)
}

// ParserForFile picks a parser from the file extension, or nil when the
// extension is not supported.
func ParserForFile(name string) Parser {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "json":
		return ParserFunc(parseJSON)
	case "yaml", "yml":
		return ParserFunc(parseYAML)
	default:
		return nil
	}
}

func parseJSON(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return languages(data)
}

func parseYAML(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return languages(data)
}

func languages(data map[string]any) (map[string]map[string]any, error) {
	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		table, ok := val.(map[string]any)
		if !ok {
			return nil, errors.Join(ErrInvalidStructure, fmt.Errorf("language %q: got %T", lang, val))
		}
		result[lang] = table
	}
	return result, nil
}
