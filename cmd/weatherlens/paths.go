package main

import (
	"os"
	"path/filepath"
)

const stateDirName = ".weatherlens"

func stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, stateDirName), nil
}

func defaultConfigPath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.yaml"), nil
}

func defaultPrefsPath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "prefs.json"), nil
}

func defaultLogPath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "weatherlens.log"), nil
}
