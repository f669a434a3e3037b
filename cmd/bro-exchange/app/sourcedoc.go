package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sourcedocCmd = &cobra.Command{
	Use:   "sourcedoc <id>",
	Short: "Look up a delivered sourcedocument",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.close()

		portal, err := env.portal()
		if err != nil {
			return err
		}

		info, err := portal.SourceDocument(ctx, args[0])
		if err != nil {
			return err
		}

		if format, _ := cmd.Flags().GetString("format"); format == "json" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(info.Raw))
			return err
		}
		return renderTable(cmd.OutOrStdout(),
			[]string{"DOCUMENT", "FILE", "STATUS", "BRO ID", "ERRORS"},
			[][]string{{
				info.Identifier,
				valueOr(info.Filename, "-"),
				valueOr(info.Status, "-"),
				valueOr(info.BroID, "-"),
				strings.Join(info.Errors, "; "),
			}})
	},
}

func init() {
	sourcedocCmd.Flags().String("format", "", "Output format (json prints the portal response)")
}
