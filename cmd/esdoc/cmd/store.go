package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/veloq/esgo"
)

// readSource loads a JSON document from an inline flag value, a file, or
// stdin when the file is "-".
func readSource(inline, file string) (json.RawMessage, error) {
	switch {
	case inline != "" && file != "":
		return nil, fmt.Errorf("--source and --file are mutually exclusive")
	case inline != "":
		return validateJSON([]byte(inline))
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return validateJSON(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return validateJSON(data)
	}
	return nil, fmt.Errorf("a document is required; use --source or --file")
}

func validateJSON(data []byte) (json.RawMessage, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	return json.RawMessage(data), nil
}

func newStoreCmd() *cobra.Command {
	var (
		id      string
		source  string
		file    string
		routing string
		opType  string
		refresh bool
		ttl     string
		version int64
	)

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store a document (PUT with --id, POST without)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			body, err := readSource(source, file)
			if err != nil {
				return err
			}
			client, cleanup, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			doc := client.Document().
				Index(cfg.Defaults.Index).
				Type(cfg.Defaults.Type).
				ID(id).
				Source(body)
			if routing != "" {
				doc.Routing(routing)
			}
			if opType != "" {
				o, perr := esgo.ParseOpType(opType)
				if perr != nil {
					return perr
				}
				doc.OpType(o)
			}
			if refresh {
				doc.Refresh(true)
			}
			if ttl != "" {
				doc.TTL(ttl)
			}
			if cmd.Flags().Changed("version") {
				doc.Version(version)
			}

			resp, err := doc.Store(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Document id (omit for server-assigned)")
	cmd.Flags().StringVar(&source, "source", "", "Inline JSON document")
	cmd.Flags().StringVar(&file, "file", "", "JSON document file, or - for stdin")
	cmd.Flags().StringVar(&routing, "routing", "", "Shard routing value")
	cmd.Flags().StringVar(&opType, "op-type", "", "index or create")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh the index after the store")
	cmd.Flags().StringVar(&ttl, "ttl", "", "Document time-to-live, e.g. 1d")
	cmd.Flags().Int64Var(&version, "version", 0, "Expected document version")
	return cmd
}
