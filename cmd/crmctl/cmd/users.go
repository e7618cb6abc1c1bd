package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apexcrm/crm-console/internal/crmapi"
	"github.com/apexcrm/crm-console/internal/domain/model"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runUsersList(ctx, os.Stdout)
	},
}

var (
	userCreateEmail     string
	userCreatePassword  string
	userCreateFullName  string
	userCreateTenant    string
	userCreateSuperuser bool
)

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runUsersCreate(ctx, os.Stdout)
	},
}

func init() {
	usersCreateCmd.Flags().StringVar(&userCreateEmail, "email", "", "User email (required)")
	usersCreateCmd.Flags().StringVar(&userCreatePassword, "password", "", "User password (required)")
	usersCreateCmd.Flags().StringVar(&userCreateFullName, "full-name", "", "User full name")
	usersCreateCmd.Flags().StringVar(&userCreateTenant, "tenant-id", "", "Tenant id the user belongs to")
	usersCreateCmd.Flags().BoolVar(&userCreateSuperuser, "superuser", false, "Grant superuser privileges")
	for _, name := range []string{"email", "password"} {
		if err := usersCreateCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(ctx context.Context, w io.Writer) error {
	client, scope, err := newClient()
	if err != nil {
		return err
	}

	users, err := client.ListUsers(ctx, scope)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(w).Encode(users)
	}
	return printUserTable(w, users)
}

func runUsersCreate(ctx context.Context, w io.Writer) error {
	client, scope, err := newClient()
	if err != nil {
		return err
	}

	in := crmapi.UserInput{
		Email:    userCreateEmail,
		Password: userCreatePassword,
		FullName: userCreateFullName,
	}
	if userCreateSuperuser {
		in.IsSuperuser = &userCreateSuperuser
	}
	if userCreateTenant != "" {
		id, perr := strconv.ParseInt(userCreateTenant, 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid tenant id %q", userCreateTenant)
		}
		in.TenantID = &id
	}
	if in.TenantID == nil && !userCreateSuperuser {
		return fmt.Errorf("non-superuser users require --tenant-id")
	}

	user, err := client.CreateUser(ctx, scope, in)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(w).Encode(user)
	}
	_, err = fmt.Fprintf(w, "created user %d (%s)\n", user.ID, user.Email)
	return err
}

func printUserTable(w io.Writer, users []model.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tTENANT\tSUPERUSER\tACTIVE")
	for _, u := range users {
		tenant := "-"
		if u.TenantID != nil {
			tenant = strconv.FormatInt(*u.TenantID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%t\n", u.ID, u.Email, u.FullName, tenant, u.IsSuperuser.Bool(), u.IsActive)
	}
	return tw.Flush()
}
