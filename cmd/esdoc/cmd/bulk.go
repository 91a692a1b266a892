package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veloq/esgo"
)

func newBulkCmd() *cobra.Command {
	var (
		file    string
		idField string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Index documents in bulk from newline-delimited JSON",
		Long: `bulk reads one JSON document per line from a file (or stdin with
--file -) and indexes them all in a single bulk request. With --id-field,
the document id is taken from the named top-level field; otherwise the
engine assigns ids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var in io.Reader
			if file == "-" {
				in = os.Stdin
			} else {
				f, ferr := os.Open(file)
				if ferr != nil {
					return fmt.Errorf("open %s: %w", file, ferr)
				}
				defer f.Close()
				in = f
			}

			client, cleanup, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			bulk := client.Bulk().
				IndexName(cfg.Defaults.Index).
				TypeName(cfg.Defaults.Type)
			if refresh {
				bulk.Refresh(true)
			}

			scanner := bufio.NewScanner(in)
			scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
			lineNo := 0
			for scanner.Scan() {
				lineNo++
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				doc, derr := documentFromLine(line, idField)
				if derr != nil {
					return fmt.Errorf("line %d: %w", lineNo, derr)
				}
				bulk.Add(doc)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if bulk.Len() == 0 {
				return fmt.Errorf("no documents in input")
			}

			resp, err := bulk.Do(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "NDJSON input file, or - for stdin")
	cmd.Flags().StringVar(&idField, "id-field", "", "Top-level field to use as document id")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh the index after the bulk")
	return cmd
}

func documentFromLine(line, idField string) (*esgo.Document, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	doc := esgo.NewDocument().Source(json.RawMessage(line))
	if idField != "" {
		v, ok := obj[idField]
		if !ok {
			return nil, fmt.Errorf("missing id field %q", idField)
		}
		doc.ID(fmt.Sprint(v))
	}
	return doc, nil
}
