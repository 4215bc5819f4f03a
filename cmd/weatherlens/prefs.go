package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/weatherlens/internal/prefs"
	"github.com/alexisbeaulieu97/weatherlens/internal/units"
)

func openPrefs() (*prefs.Store, error) {
	path, err := defaultPrefsPath()
	if err != nil {
		return nil, err
	}
	return prefs.Open(path)
}

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change your display preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsShow(cmd)
		},
	}

	cmd.AddCommand(newPrefsSetCmd())

	return cmd
}

func runPrefsShow(cmd *cobra.Command) error {
	store, err := openPrefs()
	if err != nil {
		return newCommandError("show preferences", "loading preferences", err, "Fix or delete ~/.weatherlens/prefs.json.")
	}

	p := store.Get()
	fmt.Fprintln(cmd.OutOrStdout(), p.Greeting())
	fmt.Fprintf(cmd.OutOrStdout(), "name:      %s\n", valueOrFallback(p.Name, "(not set)"))
	fmt.Fprintf(cmd.OutOrStdout(), "unit:      %s (%s)\n", p.Unit, p.Unit.Symbol())
	fmt.Fprintf(cmd.OutOrStdout(), "last city: %s\n", valueOrFallback(p.LastCity, "(none)"))
	return nil
}

func newPrefsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "set <name|unit> <value>",
		Short:     "Set a preference",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"name", "unit"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsSet(cmd, args[0], args[1])
		},
	}

	return cmd
}

func runPrefsSet(cmd *cobra.Command, key, value string) error {
	const operation = "update preferences"

	var apply func(*prefs.Preferences)
	switch strings.ToLower(key) {
	case "name":
		name := strings.TrimSpace(value)
		apply = func(p *prefs.Preferences) { p.Name = name }
	case "unit":
		unit, err := units.ParseTemperature(value)
		if err != nil {
			return newCommandError(operation, "parsing unit", err, "Use celsius, fahrenheit or kelvin.")
		}
		apply = func(p *prefs.Preferences) { p.Unit = unit }
	default:
		return newCommandError(operation, fmt.Sprintf("setting %q", key), errors.New("unknown preference"), "Use 'name' or 'unit'.")
	}

	store, err := openPrefs()
	if err != nil {
		return newCommandError(operation, "loading preferences", err, "Fix or delete ~/.weatherlens/prefs.json.")
	}

	if err := store.Update(apply); err != nil {
		return newCommandError(operation, "saving preferences", err, "Check disk space and file permissions, then retry.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", strings.ToLower(key))
	return nil
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
