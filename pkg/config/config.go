// pkg/config/config.go - configuration settings for psinstall.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/windows/registry"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the optional YAML configuration file. The tool runs
// with compiled defaults when it is absent.
const DefaultConfigPath = `C:\ProgramData\PSinstall\Config.yaml`

// PolicyRegistryPath holds enterprise policy overrides (CSP OMA-URI style).
const PolicyRegistryPath = `SOFTWARE\PSinstall\Config`

// Settings holds the immutable per-run configuration. It is resolved once in
// main and passed into every step function.
type Settings struct {
	AppName           string `yaml:"AppName"`
	AppVersion        string `yaml:"AppVersion"`
	ProductCode       string `yaml:"ProductCode"`
	MSIName           string `yaml:"MSIName"`
	SetupName         string `yaml:"SetupName"`
	UninstallerName   string `yaml:"UninstallerName"`
	SilentArg         string `yaml:"SilentArg"`
	InstallRoot       string `yaml:"InstallRoot"`
	LogDir            string `yaml:"LogDir"`
	LogLevel          string `yaml:"LogLevel"`
	Verbose           bool   `yaml:"Verbose"`
	Debug             bool   `yaml:"Debug"`
	SkipBlockingCheck bool   `yaml:"SkipBlockingCheck"`
}

// GetDefaultConfig provides the compiled default settings.
func GetDefaultConfig() *Settings {
	// Use ProgramW6432 to force the 64-bit Program Files path.
	programFiles := os.Getenv("ProgramW6432")
	if programFiles == "" {
		programFiles = `C:\Program Files`
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return &Settings{
		AppName:         "KioskClient",
		ProductCode:     "{8D2B1F4A-63C9-4E5B-9F0D-7A41C86E2B53}",
		UninstallerName: "uninstall.exe",
		SilentArg:       "/S",
		InstallRoot:     programFiles,
		LogDir:          filepath.Join(programData, "PSinstall", "logs"),
		LogLevel:        "INFO",
	}
}

// LoadConfig resolves the effective settings: compiled defaults, then the
// optional YAML file, then policy registry overrides. A missing file or
// missing registry key is not an error.
func LoadConfig() (*Settings, error) {
	return LoadConfigFrom(DefaultConfigPath)
}

// LoadConfigFrom is LoadConfig with an explicit YAML path, used by tests.
func LoadConfigFrom(path string) (*Settings, error) {
	cfg := GetDefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading configuration file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing configuration file %s: %w", path, err)
		}
	}

	if err := loadPolicyFromRegistry(PolicyRegistryPath, cfg); err != nil {
		// Policy overrides are optional; most machines have no policy key.
		log.Printf("No policy registry settings applied: %v", err)
	}

	normalize(cfg)
	return cfg, nil
}

// normalize fills derived defaults left empty by the YAML or registry layers.
func normalize(cfg *Settings) {
	if cfg.MSIName == "" {
		cfg.MSIName = cfg.AppName + ".msi"
	}
	if cfg.SetupName == "" {
		cfg.SetupName = cfg.AppName + "Setup.exe"
	}
	if cfg.UninstallerName == "" {
		cfg.UninstallerName = "uninstall.exe"
	}
	if cfg.SilentArg == "" {
		cfg.SilentArg = "/S"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "INFO"
	}
}

// SaveConfig writes the effective settings back to the YAML file so later
// runs start from them.
func SaveConfig(cfg *Settings) error {
	return SaveConfigTo(DefaultConfigPath, cfg)
}

// SaveConfigTo is SaveConfig with an explicit path, used by tests.
func SaveConfigTo(path string, cfg *Settings) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serializing configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating configuration directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ToYAML renders the settings for --show-config output.
func ToYAML(cfg *Settings) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("serializing configuration: %w", err)
	}
	return string(data), nil
}

// loadPolicyFromRegistry loads overrides from the local-machine policy key.
func loadPolicyFromRegistry(registryPath string, cfg *Settings) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, registryPath, registry.READ)
	if err != nil {
		return fmt.Errorf("opening policy registry key %s: %w", registryPath, err)
	}
	defer key.Close()

	loadStringFromRegistry(key, "AppName", &cfg.AppName)
	loadStringFromRegistry(key, "AppVersion", &cfg.AppVersion)
	loadStringFromRegistry(key, "ProductCode", &cfg.ProductCode)
	loadStringFromRegistry(key, "MSIName", &cfg.MSIName)
	loadStringFromRegistry(key, "SetupName", &cfg.SetupName)
	loadStringFromRegistry(key, "UninstallerName", &cfg.UninstallerName)
	loadStringFromRegistry(key, "SilentArg", &cfg.SilentArg)
	loadStringFromRegistry(key, "InstallRoot", &cfg.InstallRoot)
	loadStringFromRegistry(key, "LogDir", &cfg.LogDir)
	loadStringFromRegistry(key, "LogLevel", &cfg.LogLevel)

	loadBoolFromRegistry(key, "Verbose", &cfg.Verbose)
	loadBoolFromRegistry(key, "Debug", &cfg.Debug)
	loadBoolFromRegistry(key, "SkipBlockingCheck", &cfg.SkipBlockingCheck)

	return nil
}

// loadStringFromRegistry loads a string value from registry if it exists.
func loadStringFromRegistry(key registry.Key, valueName string, target *string) {
	if val, _, err := key.GetStringValue(valueName); err == nil && strings.TrimSpace(val) != "" {
		*target = strings.TrimSpace(val)
	}
}

// loadBoolFromRegistry loads a boolean value from registry if it exists.
// Accepts "true"/"false", "1"/"0" strings and DWORD 1/0.
func loadBoolFromRegistry(key registry.Key, valueName string, target *bool) {
	if val, _, err := key.GetStringValue(valueName); err == nil {
		if parsed, parseErr := strconv.ParseBool(val); parseErr == nil {
			*target = parsed
			return
		}
	}
	if val, _, err := key.GetIntegerValue(valueName); err == nil {
		*target = val != 0
	}
}
