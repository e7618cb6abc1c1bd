// Package cmd implements the crmctl command tree. crmctl is a small
// operator tool for the CRM backend's admin API: listing and creating
// tenants and users without going through the browser console.
package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/apexcrm/crm-console/internal/crmapi"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

var (
	baseURL    string
	token      string
	tenantID   string
	jsonOutput bool
)

const defaultBaseURL = "http://localhost:8000/api/v1"

var rootCmd = &cobra.Command{
	Use:   "crmctl",
	Short: "Operator CLI for the CRM backend admin API",
	Long: `crmctl talks directly to the CRM backend with a superuser token.

Environment Variables:
  CRM_BASE_URL  Backend API base URL (default: http://localhost:8000/api/v1)
  CRM_TOKEN     Bearer token for authentication`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend API base URL (overrides CRM_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (overrides CRM_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "Tenant id for tenant-scoped reads")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of a table")
}

func apiBaseURL() string {
	if baseURL != "" {
		return baseURL
	}
	if envURL := os.Getenv("CRM_BASE_URL"); envURL != "" {
		return envURL
	}
	return defaultBaseURL
}

func bearerToken() (string, error) {
	if token != "" {
		return token, nil
	}
	if envTok := os.Getenv("CRM_TOKEN"); envTok != "" {
		return envTok, nil
	}
	return "", errors.New("no token: pass --token or set CRM_TOKEN")
}

// newClient builds a backend client plus the admin scope for its calls.
func newClient() (*crmapi.Client, domainsession.Scope, error) {
	tok, err := bearerToken()
	if err != nil {
		return nil, domainsession.Scope{}, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	client := crmapi.NewClient(crmapi.Config{BaseURL: apiBaseURL()}, logger)
	scope := domainsession.Scope{Token: tok, Admin: true}
	return client, scope, nil
}
