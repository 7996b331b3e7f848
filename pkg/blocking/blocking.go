// pkg/blocking/blocking.go - best-effort check for a running instance of the
// managed application. A running process is only warned about; it never
// aborts the run.

package blocking

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/burnoil/PSinstall/pkg/logging"
)

// MatchesProcessName reports whether a process name matches the app name,
// with or without the .exe suffix, case-insensitively.
func MatchesProcessName(processName, appName string) bool {
	p := strings.ToLower(processName)
	a := strings.ToLower(appName)
	if strings.HasSuffix(a, ".exe") {
		return p == a
	}
	return p == a || p == a+".exe"
}

// IsAppRunning checks whether the application's process is currently running.
func IsAppRunning(appName string) bool {
	procs, err := process.Processes()
	if err != nil {
		logging.Error("Failed to get process list", "error", err)
		return false
	}
	for _, proc := range procs {
		name, err := proc.Name()
		if err != nil {
			continue
		}
		if MatchesProcessName(name, appName) {
			logging.Debug("Found running application process", "app", appName, "process", name)
			return true
		}
	}
	return false
}

// WarnIfRunning logs a warning when the application appears to be running.
// Installers generally cope, but files in use can make them fall back to a
// reboot-pending replace.
func WarnIfRunning(appName string) {
	if IsAppRunning(appName) {
		logging.Warn("Application appears to be running; continuing anyway", "app", appName)
	}
}
