// Command randevu runs the appointment and cash-register API.
//
// @title        Randevu API
// @version      1.0
// @description  Appointment booking, cash register and dashboard for an upholstery cleaning business.
// @BasePath     /api
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "randevu",
		Short:         "Appointment booking API for an upholstery cleaning business",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before configuration is loaded")

	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

// loadEnvFile applies path to the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
