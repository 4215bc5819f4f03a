package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertform"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
	"github.com/alexisbeaulieu97/weatherlens/internal/units"
	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

func newAlertsCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage alert rules for a city",
	}

	cmd.AddCommand(newAlertsListCmd(rootFlags))
	cmd.AddCommand(newAlertsAddCmd(rootFlags))
	cmd.AddCommand(newAlertsRemoveCmd(rootFlags))

	return cmd
}

// newAlertStore builds a store for one-shot commands. The success flash is
// disabled since nothing renders it.
func newAlertStore(cmd *cobra.Command, app *appContext, operation string) (*alertstore.Store, error) {
	client, err := app.alertClient()
	if err != nil {
		return nil, newCommandError(operation, "creating alerts client", err, "Set api.base_url or WEATHERLENS_API to an http(s) URL.")
	}

	return alertstore.New(client,
		alertstore.WithFlashDuration(0),
		alertstore.WithLogger(app.Logger.Component("alertstore")),
		alertstore.WithContext(cmd.Context()),
	), nil
}

// loadCity selects city on store and waits for its rules.
func loadCity(store *alertstore.Store, app *appContext, operation, city string) error {
	store.Drive(store.SelectCity(city))
	if store.Phase() != alertstore.Error {
		return nil
	}

	cause := store.LastFetchError()
	if cause == nil {
		cause = errors.New(store.Message())
	}
	return newCommandError(operation, fmt.Sprintf("fetching alerts for %s", city), cause,
		fmt.Sprintf("Check that the alerts service at %s is reachable (try 'weatherlens serve').", app.Config.API.BaseURL))
}

// List

type alertsListOptions struct {
	city       string
	jsonOutput bool
}

func newAlertsListCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &alertsListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the alert rules for a city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlertsList(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.city, "city", "", "City to list (defaults to default_city)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runAlertsList(cmd *cobra.Command, rootFlags *rootFlags, opts *alertsListOptions) error {
	const operation = "list alerts"

	app, err := loadAppContext(operation, rootFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	city, err := app.resolveCity(operation, opts.city)
	if err != nil {
		return err
	}

	store, err := newAlertStore(cmd, app, operation)
	if err != nil {
		return err
	}

	if err := loadCity(store, app, operation, city); err != nil {
		return err
	}

	rules := store.Rules()
	if opts.jsonOutput {
		return renderAlertsJSON(cmd, city, rules)
	}

	if len(rules) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), alertstore.EmptyMessage(city))
		fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'weatherlens alerts add --city %s' to create one.\n", city)
		return nil
	}

	return renderAlertsTable(cmd, rules, preferredUnit(app))
}

// preferredUnit reads the temperature unit from the preferences file,
// falling back to Celsius.
func preferredUnit(app *appContext) units.Temperature {
	store, err := openPrefs()
	if err != nil {
		app.Logger.WithFields(map[string]any{"error": err.Error()}).Warn("preferences unavailable, using celsius")
		return units.Celsius
	}
	return store.Get().Unit
}

func renderAlertsTable(cmd *cobra.Command, rules []alert.Rule, unit units.Temperature) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(writer, "ID\tNAME\tEMAIL\tTEMP\tHUMIDITY\tWIND\tCLOUDS\tCONDITION\tCREATED")

	for _, r := range rules {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.AlertName,
			r.Email,
			unit.Format(r.Temperature),
			optionalValue(r.Humidity, "%"),
			optionalValue(r.WindSpeed, " km/h"),
			optionalValue(r.CloudCoverage, "%"),
			r.WeatherCondition.Label(),
			formatCreated(r),
		)
	}

	return writer.Flush()
}

func optionalValue(v *float64, suffix string) string {
	if v == nil {
		return "-"
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", *v), ".0") + suffix
}

func formatCreated(r alert.Rule) string {
	if r.CreatedAt.IsZero() {
		return "-"
	}
	return r.CreatedAt.Format("02/01/06")
}

type alertsJSONPayload struct {
	Version string       `json:"version"`
	City    string       `json:"city"`
	Count   int          `json:"count"`
	Alerts  []alert.Rule `json:"alerts"`
}

func renderAlertsJSON(cmd *cobra.Command, city string, rules []alert.Rule) error {
	if rules == nil {
		rules = []alert.Rule{}
	}

	payload := alertsJSONPayload{
		Version: "1.0",
		City:    city,
		Count:   len(rules),
		Alerts:  rules,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

// Add

type alertsAddOptions struct {
	city          string
	name          string
	email         string
	temperature   string
	humidity      string
	windSpeed     string
	cloudCoverage string
	condition     string
}

// flagForField maps form fields to the flags that fill them.
var flagForField = map[string]string{
	alert.FieldAlertName:        "name",
	alert.FieldEmail:            "email",
	alert.FieldTemperature:      "temperature",
	alert.FieldHumidity:         "humidity",
	alert.FieldWindSpeed:        "wind-speed",
	alert.FieldCloudCoverage:    "cloud-coverage",
	alert.FieldWeatherCondition: "condition",
}

func newAlertsAddCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &alertsAddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an alert rule for a city",
		Example: `  weatherlens alerts add --city Delhi --name "High Temp" --email a@b.co --temperature 30
  weatherlens alerts add --name Storm --email a@b.co --temperature 25 --condition thunderstorm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlertsAdd(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.city, "city", "", "City the rule belongs to (defaults to default_city)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Alert name")
	cmd.Flags().StringVar(&opts.email, "email", "", "Email to notify")
	cmd.Flags().StringVar(&opts.temperature, "temperature", "", "Temperature threshold in °C")
	cmd.Flags().StringVar(&opts.humidity, "humidity", "", "Humidity threshold in % (optional)")
	cmd.Flags().StringVar(&opts.windSpeed, "wind-speed", "", "Wind speed threshold in km/h (optional)")
	cmd.Flags().StringVar(&opts.cloudCoverage, "cloud-coverage", "", "Cloud coverage threshold in % (optional)")
	cmd.Flags().StringVar(&opts.condition, "condition", "", "Weather condition: rain, clear, clouds, snow, thunderstorm (optional)")

	return cmd
}

func runAlertsAdd(cmd *cobra.Command, rootFlags *rootFlags, opts *alertsAddOptions) error {
	const operation = "add alert"

	app, err := loadAppContext(operation, rootFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	city, err := app.resolveCity(operation, opts.city)
	if err != nil {
		return err
	}

	store, err := newAlertStore(cmd, app, operation)
	if err != nil {
		return err
	}

	// The store needs a selected city before it accepts a submit. A failed
	// fetch does not prevent creating.
	store.Drive(store.SelectCity(city))

	form := alertform.New(store)
	form.SetField(alert.FieldAlertName, opts.name)
	form.SetField(alert.FieldEmail, opts.email)
	form.SetField(alert.FieldTemperature, opts.temperature)
	form.SetField(alert.FieldHumidity, opts.humidity)
	form.SetField(alert.FieldWindSpeed, opts.windSpeed)
	form.SetField(alert.FieldCloudCoverage, opts.cloudCoverage)
	form.SetField(alert.FieldWeatherCondition, opts.condition)

	submit, err := form.Submit()
	if err != nil {
		return newCommandError(operation, "validating input", err, validationSuggestion(err))
	}

	var created alert.Rule
	driveObserved(store, submit, func(msg tea.Msg) {
		if result, ok := msg.(alertstore.CreateResultMsg); ok {
			form.Update(result)
			created = result.Rule
		}
	})

	if err := store.LastCreateError(); err != nil {
		return newCommandError(operation, fmt.Sprintf("creating alert for %s", city), err,
			fmt.Sprintf("Check that the alerts service at %s is reachable and try again.", app.Config.API.BaseURL))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", alertstore.CreatedMessage)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s) for %s\n", created.AlertName, created.ID, city)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s now has %d alert(s).\n", city, len(store.Rules()))

	return nil
}

// driveObserved is Store.Drive with a hook that sees every message first.
func driveObserved(store *alertstore.Store, cmd tea.Cmd, observe func(tea.Msg)) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		observe(msg)
		cmd = store.Update(msg)
	}
}

func validationSuggestion(err error) string {
	var verr *wlerrors.ValidationError
	if errors.As(err, &verr) {
		if flag, ok := flagForField[verr.Field]; ok {
			return fmt.Sprintf("Provide a valid --%s value.", flag)
		}
	}
	return "Check the flag values and try again."
}

// Remove

type alertsRemoveOptions struct {
	city  string
	force bool
}

func newAlertsRemoveCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &alertsRemoveOptions{}

	cmd := &cobra.Command{
		Use:     "rm <alert-id>",
		Aliases: []string{"remove"},
		Short:   "Delete an alert rule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlertsRemove(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.city, "city", "", "City the rule belongs to (defaults to default_city)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Remove without confirmation")

	return cmd
}

func runAlertsRemove(cmd *cobra.Command, rootFlags *rootFlags, id string, opts *alertsRemoveOptions) error {
	const operation = "remove alert"

	id = strings.TrimSpace(id)
	if id == "" {
		return newCommandError(operation, "validating alert ID", errors.New("alert ID cannot be empty"), "Provide the alert ID you wish to remove.")
	}

	app, err := loadAppContext(operation, rootFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	city, err := app.resolveCity(operation, opts.city)
	if err != nil {
		return err
	}

	store, err := newAlertStore(cmd, app, operation)
	if err != nil {
		return err
	}

	if err := loadCity(store, app, operation, city); err != nil {
		return err
	}

	rule, ok := findRule(store.Rules(), id)
	if !ok {
		return newCommandError(operation, fmt.Sprintf("looking up alert %q in %s", id, city), errors.New("alert not found"),
			fmt.Sprintf("Run 'weatherlens alerts list --city %s' to view alert IDs.", city))
	}

	if !opts.force {
		confirmed, err := confirmRemoval(cmd, rule, city)
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	store.Drive(store.Delete(id))
	if err := store.LastDeleteError(); err != nil {
		return newCommandError(operation, fmt.Sprintf("deleting alert %q", id), err, "Verify the alert still exists using 'weatherlens alerts list'.")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed alert '%s' (%s) from %s\n", rule.AlertName, id, city)
	return nil
}

func findRule(rules []alert.Rule, id string) (alert.Rule, bool) {
	for _, r := range rules {
		if r.ID == id {
			return r, true
		}
	}
	return alert.Rule{}, false
}

func confirmRemoval(cmd *cobra.Command, rule alert.Rule, city string) (bool, error) {
	if !isTerminal(cmd.InOrStdin()) {
		return false, newCommandError("remove alert", "prompting for confirmation", errors.New("not a terminal"), "Use --force when running in non-interactive environments.")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Remove alert '%s' (%s) from %s? [y/N]: ", rule.AlertName, rule.ID, city)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false, scanner.Err()
	}

	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

func isTerminal(reader any) bool {
	if file, ok := reader.(*os.File); ok {
		return termIsTerminal(int(file.Fd()))
	}
	return false
}

var termIsTerminal = func(fd int) bool {
	return term.IsTerminal(fd)
}
