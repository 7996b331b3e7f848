// cmd/psinstall/main.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/burnoil/PSinstall/pkg/blocking"
	"github.com/burnoil/PSinstall/pkg/config"
	"github.com/burnoil/PSinstall/pkg/logging"
	"github.com/burnoil/PSinstall/pkg/process"
	"github.com/burnoil/PSinstall/pkg/status"
	"github.com/burnoil/PSinstall/pkg/utils"
	"github.com/burnoil/PSinstall/pkg/version"
)

func main() {
	utils.PatchWindowsArgs()

	install := pflag.Bool("install", false, "Silently install the application.")
	uninstall := pflag.Bool("uninstall", false, "Silently uninstall the application.")
	showConfig := pflag.Bool("show-config", false, "Display the effective configuration and exit.")
	writeConfig := pflag.Bool("write-config", false, "Write the effective configuration to the config file and exit.")
	versionFlag := pflag.Bool("version", false, "Print the version and exit (use with -v for build details).")

	var verbosity int
	pflag.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (e.g. -v, -vv, -vvv)")
	pflag.Parse()

	if *versionFlag {
		if verbosity > 0 {
			version.PrintFull()
		} else {
			version.Print()
		}
		os.Exit(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// -v flags override the configured log level.
	switch verbosity {
	case 0:
		// keep cfg.LogLevel
	case 1:
		cfg.LogLevel = "INFO"
	default:
		cfg.LogLevel = "DEBUG"
	}
	if verbosity > 0 {
		cfg.Verbose = true
		if verbosity >= 3 {
			cfg.Debug = true
		}
	}

	if *showConfig {
		cfgYaml, err := config.ToYAML(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Current configuration:\n%s", cfgYaml)
		os.Exit(0)
	}

	if *writeConfig {
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration written to %s\n", config.DefaultConfigPath)
		os.Exit(0)
	}

	// Mode validation is the only fatal check; it runs before any side
	// effect, including creating the log directory.
	mode, err := process.SelectMode(*install, *uninstall)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		pflag.Usage()
		os.Exit(1)
	}

	if err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseLogger()

	logging.Info("Starting run", "mode", mode.String(), "app", cfg.AppName, "version", version.Version().Version)

	if !cfg.SkipBlockingCheck {
		blocking.WarnIfRunning(cfg.AppName)
	}

	var results []process.StepResult
	switch mode {
	case process.ModeInstall:
		results = process.Install(cfg)
		process.LogResults(mode, results)
		status.Report(cfg.ProductCode, cfg.AppVersion, "after-install")
	case process.ModeUninstall:
		status.Report(cfg.ProductCode, cfg.AppVersion, "before-uninstall")
		results = process.Uninstall(cfg)
		process.LogResults(mode, results)
		status.Report(cfg.ProductCode, cfg.AppVersion, "after-uninstall")
	}

	// Step failures are deliberately not reflected in the exit code; this is
	// a best-effort, log-everything run.
	logging.Info("Run complete", "mode", mode.String(), "steps", len(results))
}
