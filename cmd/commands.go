package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"travel-agency/internal/services"
	"travel-agency/models"

	"github.com/spf13/cobra"
)

type adminPromoter interface {
	PromoteAdmin(ctx context.Context, email string) (models.User, error)
}

type placeImporter interface {
	Import(ctx context.Context, r io.Reader) (services.ImportReport, error)
}

// promoteAdminCommand grants the admin role. It is the only way to create
// an admin; the HTTP API never raises a role.
func promoteAdminCommand(users adminPromoter) *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := users.PromoteAdmin(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("promote %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", user.Email, user.ID, user.Role)
			return nil
		},
	}
}

func importPlacesCommand(importer placeImporter) *cobra.Command {
	return &cobra.Command{
		Use:   "import-places <file.xlsx>",
		Short: "Create or update places from a spreadsheet",
		Long:  "Reads the first sheet of the workbook. The header row names the columns: name, region, description, image_url, status, ordering. Rows are matched to existing places by slug.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			report, err := importer.Import(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, updated %d, skipped %d\n", report.Created, report.Updated, report.Skipped)
			return nil
		},
	}
}
