package app

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bro-exchange/bro-exchange/pkg/connector"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <dir>",
	Short: "Deliver every matching file in a directory as one delivery",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().String("pattern", connector.DefaultPattern, "Files to deliver (doublestar syntax, relative to dir)")
}

func printDelivery(w io.Writer, d *connector.Delivery) error {
	rows := make([][]string, 0, len(d.Documents))
	for _, doc := range d.Documents {
		rows = append(rows, []string{
			d.Identifier,
			valueOr(d.Status, "-"),
			valueOr(doc.Identifier, "-"),
			valueOr(doc.Filename, "-"),
			valueOr(doc.Status, "-"),
			valueOr(doc.BroID, "-"),
			strings.Join(doc.Errors, "; "),
		})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{d.Identifier, valueOr(d.Status, "-"), "-", "-", "-", "-", ""})
	}
	return renderTable(w, []string{"DELIVERY", "STATUS", "DOCUMENT", "FILE", "DOCUMENT STATUS", "BRO ID", "ERRORS"}, rows)
}

func runUpload(cmd *cobra.Command, args []string) error {
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
	pattern, _ := cmd.Flags().GetString("pattern")

	delivery, err := portal.UploadDir(ctx, args[0], pattern)
	if err != nil {
		return err
	}
	return printDelivery(cmd.OutOrStdout(), delivery)
}
