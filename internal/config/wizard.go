package config

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result
// to path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to policyvote! Let's connect to your school's server.")
	fmt.Println()

	cfg := DefaultConfig()
	if existing, err := Load(path); err == nil {
		cfg = existing
	}

	// 1. Server URL.
	urlPrompt := promptui.Prompt{
		Label:    "Server URL",
		Default:  cfg.BaseURL,
		Validate: validateBaseURL,
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	cfg.BaseURL = baseURL

	// 2. Language.
	langPrompt := promptui.Select{
		Label: "Language",
		Items: []string{"en — English", "ro — Română"},
	}
	langIdx, _, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}
	cfg.Language = []string{"en", "ro"}[langIdx]

	// 3. Theme.
	themePrompt := promptui.Select{
		Label: "Color theme",
		Items: []string{"light", "dark"},
	}
	_, theme, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	cfg.Theme = theme

	// 4. Profile directory.
	dirPrompt := promptui.Prompt{
		Label:   "Where to keep this device's session and drafts",
		Default: cfg.DataDir,
	}
	dataDir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	fmt.Println("Next: run `policyvote login` with your classroom code.")
	return cfg, nil
}
