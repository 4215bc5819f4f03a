package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
	"github.com/alexisbeaulieu97/weatherlens/internal/config"
	"github.com/alexisbeaulieu97/weatherlens/internal/logger"
	"github.com/alexisbeaulieu97/weatherlens/internal/theme"
	"github.com/alexisbeaulieu97/weatherlens/internal/tui/dashboard"
)

type dashboardOptions struct {
	city      string
	condition string
	night     bool
	day       bool
}

func newDashboardCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &dashboardOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Launch the interactive alerts dashboard",
		Long:  `Launch the interactive TUI to browse, create and delete alert rules per city.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.city, "city", "", "City to open (defaults to the last one used)")
	cmd.Flags().StringVar(&opts.condition, "condition", "clear", "Weather condition used for the theme")
	cmd.Flags().BoolVar(&opts.night, "night", false, "Force the night theme")
	cmd.Flags().BoolVar(&opts.day, "day", false, "Force the day theme")
	cmd.MarkFlagsMutuallyExclusive("night", "day")

	return cmd
}

func runDashboard(cmd *cobra.Command, rootFlags *rootFlags, opts *dashboardOptions) error {
	const operation = "launch dashboard"

	// stdout belongs to the TUI, so logs go to a file.
	logPath, err := defaultLogPath()
	if err != nil {
		return newCommandError(operation, "determining log path", err, "Ensure your HOME directory is set correctly.")
	}
	logFile, err := logger.OpenFile(logPath)
	if err != nil {
		return newCommandError(operation, fmt.Sprintf("opening log file %s", logPath), err, "Check permissions on ~/.weatherlens.")
	}
	defer logFile.Close()

	app, err := loadAppContext(operation, rootFlags, logFile)
	if err != nil {
		return err
	}
	log := app.Logger.Component("dashboard")

	prefStore, err := openPrefs()
	if err != nil {
		return newCommandError(operation, "loading preferences", err, "Fix or delete ~/.weatherlens/prefs.json.")
	}
	preferences := prefStore.Get()

	city, err := app.resolveCity(operation, startCity(app.Config, opts.city, preferences.LastCity))
	if err != nil {
		return err
	}

	client, err := app.alertClient()
	if err != nil {
		return newCommandError(operation, "creating alerts client", err, "Set api.base_url or WEATHERLENS_API to an http(s) URL.")
	}

	clock := clockwork.NewRealClock()
	store := alertstore.New(client,
		alertstore.WithClock(clock),
		alertstore.WithFlashDuration(app.Config.Alerts.SuccessFlash),
		alertstore.WithLogger(app.Logger.Component("alertstore")),
		alertstore.WithContext(cmd.Context()),
	)

	var night *bool
	if opts.night || opts.day {
		forced := opts.night
		night = &forced
	}

	seed := uint64(time.Now().UnixNano())
	m := dashboard.NewModel(dashboard.Options{
		Store:     store,
		Cities:    app.Config.Cities,
		City:      city,
		Prefs:     preferences,
		Saver:     prefStore,
		Condition: opts.condition,
		Night:     night,
		Clock:     clock,
		Renderer:  theme.NewParticleRenderer(rand.New(rand.NewPCG(seed, seed>>1))),
		Logger:    log,
	})

	log.WithFields(map[string]any{"city": city, "api": client.BaseURL()}).Info("launching dashboard")

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		log.Error(err, "dashboard execution failed")
		return fmt.Errorf("failed to run dashboard: %w", err)
	}

	log.Info("dashboard closed")
	return nil
}

// startCity picks the flag, then the remembered city when it is still
// configured, then the configured default.
func startCity(cfg *config.Config, flagCity, lastCity string) string {
	if flagCity != "" {
		return flagCity
	}
	if lastCity != "" && cfg.HasCity(lastCity) {
		return lastCity
	}
	return cfg.DefaultCity
}
