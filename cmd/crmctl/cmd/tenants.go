package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apexcrm/crm-console/internal/crmapi"
	"github.com/apexcrm/crm-console/internal/domain/model"
)

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "Manage tenants",
}

var tenantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tenants",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runTenantsList(ctx, os.Stdout)
	},
}

var (
	tenantCreateName     string
	tenantCreateInactive bool
)

var tenantsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runTenantsCreate(ctx, os.Stdout)
	},
}

func init() {
	tenantsCreateCmd.Flags().StringVar(&tenantCreateName, "name", "", "Tenant name (required)")
	tenantsCreateCmd.Flags().BoolVar(&tenantCreateInactive, "inactive", false, "Create the tenant disabled")
	if err := tenantsCreateCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	tenantsCmd.AddCommand(tenantsListCmd)
	tenantsCmd.AddCommand(tenantsCreateCmd)
	rootCmd.AddCommand(tenantsCmd)
}

func runTenantsList(ctx context.Context, w io.Writer) error {
	client, scope, err := newClient()
	if err != nil {
		return err
	}

	tenants, err := client.ListTenants(ctx, scope)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(w).Encode(tenants)
	}
	return printTenantTable(w, tenants)
}

func runTenantsCreate(ctx context.Context, w io.Writer) error {
	client, scope, err := newClient()
	if err != nil {
		return err
	}

	isActive := !tenantCreateInactive
	tenant, err := client.CreateTenant(ctx, scope, crmapi.TenantInput{
		Name:     tenantCreateName,
		IsActive: &isActive,
	})
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(w).Encode(tenant)
	}
	_, err = fmt.Fprintf(w, "created tenant %d (%s)\n", tenant.ID, tenant.Name)
	return err
}

func printTenantTable(w io.Writer, tenants []model.Tenant) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSCHEMA\tACTIVE\tCREATED")
	for _, t := range tenants {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", t.ID, t.Name, t.SchemaName, t.IsActive, t.CreatedAt)
	}
	return tw.Flush()
}
