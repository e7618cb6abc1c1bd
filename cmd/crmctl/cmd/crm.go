package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Inspect CRM contacts for a tenant",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a tenant's contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runContactsList(ctx, os.Stdout)
	},
}

func init() {
	contactsCmd.AddCommand(contactsListCmd)
	rootCmd.AddCommand(contactsCmd)
}

func runContactsList(ctx context.Context, w io.Writer) error {
	if tenantID == "" {
		return errors.New("contacts list requires --tenant")
	}

	client, scope, err := newClient()
	if err != nil {
		return err
	}

	contacts, err := client.AdminListContacts(ctx, scope, tenantID)
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(w).Encode(contacts)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCOMPANY")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\n", c.ID, c.FirstName, c.LastName, c.Email, c.Company)
	}
	return tw.Flush()
}
