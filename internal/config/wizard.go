package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// providerItems is the order providers are offered in the wizard.
var providerItems = []string{
	string(ProviderGoogle),
	string(ProviderOpenAI),
	string(ProviderAnthropic),
	string(ProviderOllama),
	string(ProviderOpenRouter),
	string(ProviderMiniMax),
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .atomik.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to atomik! Let's configure the visualizer.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select the provider for element insights",
		Items: providerItems,
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(cfg.Provider),
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: func(s string) error { _, err := parsePort(s); return err },
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = parsePort(portStr)

	// 4. Element shown on the landing page.
	elementPrompt := promptui.Prompt{
		Label:   "Default element (symbol or atomic number)",
		Default: cfg.DefaultElement,
	}
	if cfg.DefaultElement, err = elementPrompt.Run(); err != nil {
		return nil, fmt.Errorf("default element: %w", err)
	}

	// 5. Export target.
	exportPrompt := promptui.Select{
		Label: "Where should `atomik export` write diagrams?",
		Items: []string{"local directory", "S3 bucket"},
	}
	exportIdx, _, err := exportPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("export selection: %w", err)
	}
	if exportIdx == 1 {
		cfg.Export.Driver = ExportS3
		bucketPrompt := promptui.Prompt{
			Label:    "S3 bucket",
			Validate: nonEmpty,
		}
		if cfg.Export.S3.Bucket, err = bucketPrompt.Run(); err != nil {
			return nil, fmt.Errorf("s3 bucket: %w", err)
		}
	} else {
		dirPrompt := promptui.Prompt{
			Label:   "Export directory",
			Default: cfg.Export.Dir,
		}
		if cfg.Export.Dir, err = dirPrompt.Run(); err != nil {
			return nil, fmt.Errorf("export dir: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	if !HasAPIKey(cfg.Provider) {
		fmt.Printf("\nNote: set %s in your environment, or run `atomik auth %s`, to see live insights.\n",
			strings.Join(APIKeyEnvVars(cfg.Provider), " or "), cfg.Provider)
	}

	if err := cfg.Save(FileName); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", FileName)
	return cfg, nil
}

func parsePort(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("port must be a number")
	}
	if n <= 0 || n > 65535 {
		return 0, fmt.Errorf("port %d out of range", n)
	}
	return n, nil
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}
