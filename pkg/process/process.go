// pkg/process/process.go - step sequencing for install and uninstall runs.
//
// Every step produces a StepResult that the caller logs; no step's failure
// stops the sequence or changes the process exit code. Only the upfront mode
// validation is fatal.

package process

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/burnoil/PSinstall/pkg/config"
	"github.com/burnoil/PSinstall/pkg/installer"
	"github.com/burnoil/PSinstall/pkg/logging"
	"github.com/burnoil/PSinstall/pkg/utils"
)

// Mode selects which step sequence runs.
type Mode int

const (
	ModeInstall Mode = iota + 1
	ModeUninstall
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeInstall:
		return "install"
	case ModeUninstall:
		return "uninstall"
	default:
		return "unknown"
	}
}

// ErrInvalidMode is returned when not exactly one mode flag was given.
var ErrInvalidMode = errors.New("exactly one of --install or --uninstall must be specified")

// SelectMode validates the two mutually exclusive mode flags.
func SelectMode(install, uninstall bool) (Mode, error) {
	switch {
	case install && uninstall:
		return 0, ErrInvalidMode
	case install:
		return ModeInstall, nil
	case uninstall:
		return ModeUninstall, nil
	default:
		return 0, ErrInvalidMode
	}
}

// StepStatus is the per-step outcome.
type StepStatus string

const (
	StatusSucceeded StepStatus = "succeeded"
	StatusSkipped   StepStatus = "skipped"
	StatusFailed    StepStatus = "failed"
)

// StepResult records one step's outcome for logging.
type StepResult struct {
	Name   string
	Status StepStatus
	Detail string
	Err    error
}

// Seams for tests; production code never overrides these.
var (
	installMSI       = installer.InstallMSI
	runEXE           = installer.RunEXE
	removeMSIProduct = installer.RemoveMSIProduct
	osRemove         = os.Remove
	executableDir    = utils.ExecutableDir
	publicDesktopDir = utils.PublicDesktopDir
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Install runs the install-mode sequence: MSI install, setup EXE, then
// shortcut removal. Each step is independently guarded.
func Install(cfg *config.Settings) []StepResult {
	var results []StepResult

	baseDir, err := executableDir()
	if err != nil {
		results = append(results, StepResult{
			Name:   "resolve-base-dir",
			Status: StatusFailed,
			Detail: "unable to resolve the executable's directory; installer steps skipped",
			Err:    err,
		})
	}

	// MSI install
	if baseDir != "" {
		msiPath := filepath.Join(baseDir, cfg.MSIName)
		if !fileExists(msiPath) {
			results = append(results, StepResult{
				Name:   "msi-install",
				Status: StatusSkipped,
				Detail: fmt.Sprintf("MSI not found: %s", msiPath),
			})
		} else {
			msiLog := filepath.Join(cfg.LogDir, cfg.AppName+"-msi-install.log")
			err := installMSI(msiPath, msiLog)
			results = append(results, stepOutcome("msi-install", msiLog, err))
		}
	}

	// Setup EXE install
	if baseDir != "" {
		exePath := filepath.Join(baseDir, cfg.SetupName)
		if !fileExists(exePath) {
			results = append(results, StepResult{
				Name:   "exe-install",
				Status: StatusSkipped,
				Detail: fmt.Sprintf("setup EXE not found: %s", exePath),
			})
		} else {
			exeLog := filepath.Join(cfg.LogDir, cfg.AppName+"-exe-install.log")
			err := runEXE(exePath, []string{cfg.SilentArg}, exeLog)
			results = append(results, stepOutcome("exe-install", exeLog, err))
		}
	}

	// The shortcut removal always runs, regardless of installer outcomes.
	results = append(results, removeShortcut(cfg))
	return results
}

// Uninstall runs the uninstall-mode sequence: each bundled uninstaller under
// the install root, then MSI removal by product code. The MSI removal always
// runs, even when no installation directories matched.
func Uninstall(cfg *config.Settings) []StepResult {
	var results []StepResult

	matches, err := matchInstallDirs(cfg.InstallRoot, cfg.AppName)
	if err != nil {
		results = append(results, StepResult{
			Name:   "bundled-uninstall",
			Status: StatusFailed,
			Detail: fmt.Sprintf("unable to enumerate %s", cfg.InstallRoot),
			Err:    err,
		})
	} else if len(matches) == 0 {
		results = append(results, StepResult{
			Name:   "bundled-uninstall",
			Status: StatusSkipped,
			Detail: fmt.Sprintf("no directories matching %s* under %s", cfg.AppName, cfg.InstallRoot),
		})
	}

	for _, dir := range matches {
		name := "bundled-uninstall:" + filepath.Base(dir)
		uninstPath := filepath.Join(dir, cfg.UninstallerName)
		if !fileExists(uninstPath) {
			results = append(results, StepResult{
				Name:   name,
				Status: StatusSkipped,
				Detail: fmt.Sprintf("no %s in %s", cfg.UninstallerName, dir),
			})
			continue
		}
		outLog := filepath.Join(cfg.LogDir, "uninstall-"+filepath.Base(dir)+".log")
		err := runEXE(uninstPath, []string{cfg.SilentArg}, outLog)
		results = append(results, stepOutcome(name, outLog, err))
	}

	// MSI removal by product code, unconditionally. "Not installed" shows up
	// as a non-zero msiexec exit and stays a logged, non-fatal outcome.
	msiLog := filepath.Join(cfg.LogDir, cfg.AppName+"-msi-uninstall.log")
	err = removeMSIProduct(cfg.ProductCode, msiLog)
	results = append(results, stepOutcome("msi-remove", msiLog, err))

	return results
}

// matchInstallDirs lists subdirectories of root whose names start with the
// app name, case-insensitively.
func matchInstallDirs(root, appName string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	prefix := strings.ToLower(appName)
	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(strings.ToLower(entry.Name()), prefix) {
			matches = append(matches, filepath.Join(root, entry.Name()))
		}
	}
	return matches, nil
}

// removeShortcut deletes the public-desktop shortcut named after the app.
func removeShortcut(cfg *config.Settings) StepResult {
	lnkPath := filepath.Join(publicDesktopDir(), cfg.AppName+".lnk")
	if !fileExists(lnkPath) {
		return StepResult{
			Name:   "remove-shortcut",
			Status: StatusSkipped,
			Detail: fmt.Sprintf("shortcut not found: %s", lnkPath),
		}
	}
	if err := osRemove(lnkPath); err != nil {
		return StepResult{
			Name:   "remove-shortcut",
			Status: StatusFailed,
			Detail: lnkPath,
			Err:    err,
		}
	}
	return StepResult{
		Name:   "remove-shortcut",
		Status: StatusSucceeded,
		Detail: lnkPath,
	}
}

// stepOutcome folds an invocation error into a StepResult. A non-zero child
// exit is recorded as failed here but, like every step failure, it never
// escalates past the log.
func stepOutcome(name, logPath string, err error) StepResult {
	if err != nil {
		return StepResult{Name: name, Status: StatusFailed, Detail: logPath, Err: err}
	}
	return StepResult{Name: name, Status: StatusSucceeded, Detail: logPath}
}

// LogResults writes each step's outcome to the log stream.
func LogResults(mode Mode, results []StepResult) {
	for _, r := range results {
		switch r.Status {
		case StatusSucceeded:
			logging.Info("Step succeeded", "mode", mode.String(), "step", r.Name, "detail", r.Detail)
		case StatusSkipped:
			logging.Info("Step skipped", "mode", mode.String(), "step", r.Name, "detail", r.Detail)
		case StatusFailed:
			logging.Warn("Step failed, continuing", "mode", mode.String(), "step", r.Name, "detail", r.Detail, "error", r.Err)
		}
	}
}
