package cmd

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var (
		routing string
		version int64
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document by id",
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
			if cmd.Flags().Changed("version") {
				doc.Version(version)
			}
			if refresh {
				doc.Refresh(true)
			}

			resp, err := doc.Delete(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}

	cmd.Flags().StringVar(&routing, "routing", "", "Shard routing value")
	cmd.Flags().Int64Var(&version, "version", 0, "Expected document version")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh the index after the delete")
	return cmd
}
