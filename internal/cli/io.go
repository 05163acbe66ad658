package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wbrown/janus-values/internal/config"
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/convert"
	"github.com/wbrown/janus-values/sqlvalue/edn"
	"github.com/wbrown/janus-values/sqlvalue/render"
	"github.com/wbrown/janus-values/sqlvalue/ser"
	"github.com/wbrown/janus-values/sqlvalue/yamlsource"
)

// readInput reads the named file, or stdin for "" and "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// decodeDocuments parses every document of data in the configured format
func decodeDocuments(cfg *config.Config, data []byte) ([]ser.Marshaler, error) {
	var docs []ser.Marshaler
	switch cfg.InputFormat {
	case "edn":
		nodes, err := edn.ParseAllWithOptions(string(data), edn.ParseOptions{MaxDepth: cfg.MaxDepth})
		if err != nil {
			return nil, fmt.Errorf("invalid EDN input: %w", err)
		}
		for _, n := range nodes {
			docs = append(docs, n)
		}
	default:
		parsed, err := yamlsource.ParseAll(data, yamlsource.Options{MaxDepth: cfg.MaxDepth})
		if err != nil {
			return nil, fmt.Errorf("invalid %s input: %w", cfg.InputFormat, err)
		}
		for _, d := range parsed {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

// decodeValues converts every document of data into a value
func decodeValues(cfg *config.Config, data []byte) ([]sqlvalue.Value, error) {
	docs, err := decodeDocuments(cfg, data)
	if err != nil {
		return nil, err
	}
	values := make([]sqlvalue.Value, 0, len(docs))
	for i, doc := range docs {
		v, err := convert.ToValue(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// decodeValue converts input that must hold exactly one document
func decodeValue(cfg *config.Config, data []byte) (sqlvalue.Value, error) {
	values, err := decodeValues(cfg, data)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("expected one document, got %d", len(values))
	}
	return values[0], nil
}

// writeValue prints v in the configured output format
func writeValue(cmd *cobra.Command, cfg *config.Config, v sqlvalue.Value) error {
	out := cmd.OutOrStdout()
	switch cfg.Output {
	case "table":
		table, err := render.NewTableFormatter().Format(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, table)
		return err
	case "edn":
		text, err := edn.Marshal(sqlvalue.AsVariant(v))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, text)
		return err
	}
	mode, err := render.ParseColorMode(cfg.Color)
	if err != nil {
		return err
	}
	return render.NewPrinter(out, mode).Print(v)
}

// parseThing reads a record id argument such as person:tobie
func parseThing(arg string) (sqlvalue.Thing, error) {
	id, err := sqlvalue.ParseThing(arg)
	if err != nil {
		return sqlvalue.Thing{}, fmt.Errorf("invalid record id %q: %w", arg, err)
	}
	return id, nil
}
