package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/weatherlens/internal/theme"
)

type themeOptions struct {
	night      bool
	day        bool
	jsonOutput bool
	preview    bool
	seed       uint64
}

func newThemeCmd() *cobra.Command {
	opts := &themeOptions{}

	cmd := &cobra.Command{
		Use:   "theme [condition]",
		Short: "Show the theme derived for a weather condition",
		Long: `Show the accent colour, glow, icon and floating element style derived for a
weather condition such as rain, clouds or thunderstorm. Day or night follows
the local clock unless --night or --day is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			condition := ""
			if len(args) == 1 {
				condition = args[0]
			}
			return runTheme(cmd, condition, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.night, "night", false, "Force the night theme")
	cmd.Flags().BoolVar(&opts.day, "day", false, "Force the day theme")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "Print a sample of the animated background")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed for --preview (0 picks one from the clock)")
	cmd.MarkFlagsMutuallyExclusive("night", "day")

	return cmd
}

type themeJSON struct {
	Condition string    `json:"condition"`
	Night     bool      `json:"night"`
	Icon      string    `json:"icon"`
	Accent    tokenJSON `json:"accent"`
	Glow      string    `json:"glow"`
	Floating  []string  `json:"floating"`
	CardTint  string    `json:"card_tint"`
}

type tokenJSON struct {
	Token string `json:"token"`
	Hex   string `json:"hex"`
}

func runTheme(cmd *cobra.Command, condition string, opts *themeOptions) error {
	night, err := resolveNight(opts.night, opts.day, time.Now())
	if err != nil {
		return newCommandError("show theme", "choosing day or night", err, "Pass only one of --night and --day.")
	}

	d := theme.Derive(condition, night)
	floating := []string{
		theme.FloatingElementStyle(condition, night, 0).String(),
		theme.FloatingElementStyle(condition, night, 1).String(),
	}
	tint := theme.CardTint(condition, night)

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(themeJSON{
			Condition: d.Condition,
			Night:     d.Night,
			Icon:      string(d.Icon),
			Accent:    tokenJSON{Token: d.Accent.String(), Hex: d.Accent.Hex()},
			Glow:      d.Glow.String(),
			Floating:  floating,
			CardTint:  tint.String(),
		})
	}

	mode := "day"
	if night {
		mode = "night"
	}
	name := d.Condition
	if name == "" {
		name = "clear"
	}

	accent := lipgloss.NewStyle().Foreground(d.Accent.Color()).Bold(true)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n\n", d.Icon, accent.Render(fmt.Sprintf("%s (%s)", name, mode)))
	fmt.Fprintf(out, "accent:    %s %s\n", d.Accent, d.Accent.Hex())
	fmt.Fprintf(out, "glow:      %s\n", d.Glow)
	fmt.Fprintf(out, "floating:  %s, %s\n", floating[0], floating[1])
	fmt.Fprintf(out, "card tint: %s\n", tint)

	if opts.preview {
		seed := opts.seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		renderer := theme.NewParticleRenderer(rand.New(rand.NewPCG(seed, seed)))
		style := lipgloss.NewStyle().Foreground(d.Floating.Color())

		fmt.Fprintln(out)
		for _, row := range renderer.RenderBackground(condition, night, 48, 4) {
			fmt.Fprintln(out, style.Render(row))
		}
	}

	return nil
}

// resolveNight picks night mode from the flags, or from now when neither is set.
func resolveNight(night, day bool, now time.Time) (bool, error) {
	switch {
	case night && day:
		return false, errors.New("--night and --day are mutually exclusive")
	case night:
		return true, nil
	case day:
		return false, nil
	default:
		return theme.IsNight(now), nil
	}
}
