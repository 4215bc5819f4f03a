package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/weatherlens/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information and the alerts service in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, rootFlags)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command, rootFlags *rootFlags) error {
	const operation = "show version"

	path := rootFlags.configPath
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return newCommandError(operation, "determining config path", err, "Ensure your HOME directory is set correctly or pass --config.")
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return newCommandError(operation, fmt.Sprintf("loading config %s", path), err, "Fix the reported field, or remove the file to use defaults.")
	}

	source := path
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		source = path + " (not found, using defaults)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "WeatherLens %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
	fmt.Fprintf(out, "config: %s\n", source)
	fmt.Fprintf(out, "api:    %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "cities: %s (default %s)\n", strings.Join(cfg.Cities, ", "), cfg.DefaultCity)
	return nil
}
