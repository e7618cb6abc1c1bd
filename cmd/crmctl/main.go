package main

import (
	"os"

	"github.com/apexcrm/crm-console/cmd/crmctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1) //nolint:forbidigo // CLI must exit with failure status on command errors.
	}
}
