package cmd

import (
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var (
		routing  string
		fields   []string
		realtime bool
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a document by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
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
				ID(args[0])
			if routing != "" {
				doc.Routing(routing)
			}
			if len(fields) > 0 {
				doc.Fields(fields...)
			}
			if cmd.Flags().Changed("realtime") {
				doc.Realtime(realtime)
			}
			if refresh {
				doc.Refresh(true)
			}

			resp, err := doc.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}

	cmd.Flags().StringVar(&routing, "routing", "", "Shard routing value")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Stored fields to return")
	cmd.Flags().BoolVar(&realtime, "realtime", true, "Allow reading not-yet-refreshed documents")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh the shard before the get")
	return cmd
}
