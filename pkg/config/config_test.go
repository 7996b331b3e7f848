package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsWhenNoConfigFile(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.AppName == "" {
		t.Fatal("AppName default missing")
	}
	if cfg.MSIName != cfg.AppName+".msi" {
		t.Fatalf("MSIName = %q, want derived from AppName", cfg.MSIName)
	}
	if cfg.SetupName != cfg.AppName+"Setup.exe" {
		t.Fatalf("SetupName = %q, want derived from AppName", cfg.SetupName)
	}
	if cfg.SilentArg != "/S" {
		t.Fatalf("SilentArg = %q, want /S", cfg.SilentArg)
	}
	if cfg.UninstallerName != "uninstall.exe" {
		t.Fatalf("UninstallerName = %q, want uninstall.exe", cfg.UninstallerName)
	}
	if cfg.ProductCode == "" || cfg.LogDir == "" || cfg.InstallRoot == "" {
		t.Fatalf("incomplete defaults: %+v", cfg)
	}
}

func TestYAMLOverridesAndDerivedNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Config.yaml")
	yaml := "AppName: LabAgent\nSetupName: custom-setup.exe\nLogLevel: DEBUG\nSkipBlockingCheck: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.AppName != "LabAgent" {
		t.Fatalf("AppName = %q, want LabAgent", cfg.AppName)
	}
	if cfg.MSIName != "LabAgent.msi" {
		t.Fatalf("MSIName = %q, want derived LabAgent.msi", cfg.MSIName)
	}
	if cfg.SetupName != "custom-setup.exe" {
		t.Fatalf("SetupName = %q, explicit value must win", cfg.SetupName)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Fatalf("LogLevel = %q, want DEBUG", cfg.LogLevel)
	}
	if !cfg.SkipBlockingCheck {
		t.Fatal("SkipBlockingCheck override lost")
	}
}

func TestSaveConfigToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "Config.yaml")
	cfg := GetDefaultConfig()
	cfg.AppName = "LabAgent"
	cfg.AppVersion = "3.1.0"

	if err := SaveConfigTo(path, cfg); err != nil {
		t.Fatalf("SaveConfigTo: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if loaded.AppName != "LabAgent" || loaded.AppVersion != "3.1.0" {
		t.Fatalf("round trip lost values: %+v", loaded)
	}
}

func TestToYAMLContainsSettings(t *testing.T) {
	cfg := GetDefaultConfig()
	out, err := ToYAML(cfg)
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	for _, want := range []string{"AppName: " + cfg.AppName, "ProductCode:", "LogDir:"} {
		if !strings.Contains(out, want) {
			t.Errorf("ToYAML output missing %q:\n%s", want, out)
		}
	}
}

func TestMalformedYAMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Config.yaml")
	if err := os.WriteFile(path, []byte("AppName: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFrom(path); err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}
