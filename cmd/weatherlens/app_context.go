package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexisbeaulieu97/weatherlens/internal/alertapi"
	"github.com/alexisbeaulieu97/weatherlens/internal/config"
	"github.com/alexisbeaulieu97/weatherlens/internal/logger"
)

// appContext bundles the configuration and logger each command starts from.
type appContext struct {
	Config *config.Config
	Logger *logger.Logger
}

func loadAppContext(operation string, flags *rootFlags, logWriter io.Writer) (*appContext, error) {
	path := flags.configPath
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return nil, newCommandError(operation, "determining config path", err, "Ensure your HOME directory is set correctly or pass --config.")
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, newCommandError(operation, fmt.Sprintf("loading config %s", path), err, "Fix the reported field, or remove the file to use defaults.")
	}

	level := cfg.Log.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}

	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: cfg.Log.HumanReadable,
		Writer:        logWriter,
	})
	if err != nil {
		return nil, newCommandError(operation, "creating logger", err, "Use one of trace, debug, info, warn, error for --log-level.")
	}

	return &appContext{Config: cfg, Logger: log}, nil
}

func (a *appContext) alertClient() (*alertapi.Client, error) {
	return alertapi.New(a.Config.API.BaseURL,
		alertapi.WithTimeout(a.Config.API.Timeout),
		alertapi.WithUserAgent(a.Config.API.UserAgent),
		alertapi.WithLogger(a.Logger.Component("alertapi")),
	)
}

// resolveCity returns city, or the configured default when city is blank.
func (a *appContext) resolveCity(operation, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		city = a.Config.DefaultCity
	}
	if city == "" {
		return "", newCommandError(operation, "selecting a city", errors.New("no city given and no default_city configured"), "Pass --city or set default_city in your config.")
	}
	if !a.Config.HasCity(city) {
		return "", newCommandError(operation, fmt.Sprintf("selecting city %q", city), errors.New("city is not configured"), fmt.Sprintf("Choose one of: %s.", strings.Join(a.Config.Cities, ", ")))
	}
	return city, nil
}
