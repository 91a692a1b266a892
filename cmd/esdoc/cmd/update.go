package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func parseJSONObject(flag, value string) (map[string]any, error) {
	if value == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(value), &m); err != nil {
		return nil, fmt.Errorf("--%s must be a JSON object: %w", flag, err)
	}
	return m, nil
}

func newUpdateCmd() *cobra.Command {
	var (
		script          string
		lang            string
		params          string
		doc             string
		upsert          string
		routing         string
		retryOnConflict int
		refresh         bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Partially update a document with a script or partial document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			paramsMap, err := parseJSONObject("params", params)
			if err != nil {
				return err
			}
			upsertMap, err := parseJSONObject("upsert", upsert)
			if err != nil {
				return err
			}
			docMap, err := parseJSONObject("doc", doc)
			if err != nil {
				return err
			}
			client, cleanup, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			d := client.Document().
				Index(cfg.Defaults.Index).
				Type(cfg.Defaults.Type).
				ID(args[0])
			if script != "" {
				d.Script(script)
			}
			if lang != "" {
				d.Lang(lang)
			}
			if paramsMap != nil {
				d.Params(paramsMap)
			}
			if upsertMap != nil {
				d.Upsert(upsertMap)
			}
			if docMap != nil {
				d.Source(docMap)
			}
			if routing != "" {
				d.Routing(routing)
			}
			if cmd.Flags().Changed("retry-on-conflict") {
				d.RetryOnConflict(retryOnConflict)
			}
			if refresh {
				d.Refresh(true)
			}

			resp, err := d.Update(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "Update script source")
	cmd.Flags().StringVar(&lang, "lang", "", "Script language")
	cmd.Flags().StringVar(&params, "params", "", "Script parameters as a JSON object")
	cmd.Flags().StringVar(&doc, "doc", "", "Partial document as a JSON object")
	cmd.Flags().StringVar(&upsert, "upsert", "", "Upsert document as a JSON object")
	cmd.Flags().StringVar(&routing, "routing", "", "Shard routing value")
	cmd.Flags().IntVar(&retryOnConflict, "retry-on-conflict", 0, "Retries on version conflict")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh the index after the update")
	return cmd
}
