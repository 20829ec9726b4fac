package main

import (
	"encoding/json"
	"fmt"
	devenv "krossbooking/dev/env"
	"krossbooking/lib/scrapers/kross"
	"log/slog"
	"os"

	"github.com/tcnksm/go-input"
)

const krossConfigName = "kross_config.json5"

func validateTenant(tenant string) error {
	err := kross.ValidateTenant(tenant)
	if err != nil {
		return fmt.Errorf("%w, use the subdomain of <hotel>.krossbooking.com", err)
	}
	return nil
}

// SetupKrossTests asks for the credentials used by the live tests and
// writes them to dev/.state/kross_config.json5.
func SetupKrossTests() error {
	path, err := devenv.GetStateFilePath(krossConfigName)
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if !os.IsNotExist(err) {
		slog.Info("krossbooking credentials have already been provided", "path", path)
		return err
	}

	ui := input.DefaultUI()
	tenant, err := ui.Ask("krossbooking hotel id (<hotel>.krossbooking.com):", &input.Options{
		Required:     true,
		Loop:         true,
		ValidateFunc: validateTenant,
	})
	if err != nil {
		return err
	}
	username, err := ui.Ask("krossbooking username:", &input.Options{
		Required: true,
		Loop:     true,
	})
	if err != nil {
		return err
	}
	password, err := ui.Ask("krossbooking password:", &input.Options{
		Required: true,
		Loop:     true,
		Mask:     true,
	})
	if err != nil {
		return err
	}

	config, err := json.MarshalIndent(devenv.KrossTestConfig{
		Tenant:   tenant,
		Username: username,
		Password: password,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, config, 0600)
}

func PrintConfigLocations() {
	path, err := devenv.GetStateFilePath(krossConfigName)
	if err != nil {
		slog.Warn("failed to resolve dev state", "err", err)
		return
	}
	fmt.Println("live test credentials:", path)
	fmt.Println("add a telemetry.json5 to the repository root to export traces and metrics.")
}
