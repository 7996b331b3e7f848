// pkg/utils/paths.go - well-known filesystem locations used by the steps.

package utils

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// ExecutableDir returns the directory containing the running binary. The
// installer payloads (MSI and setup EXE) are expected alongside it.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		resolved = exe
	}
	return filepath.Dir(resolved), nil
}

// PublicDesktopDir returns the all-users desktop folder where the shortcut
// created by the installer lives.
func PublicDesktopDir() string {
	if dir, err := windows.KnownFolderPath(windows.FOLDERID_PublicDesktop, 0); err == nil && dir != "" {
		return dir
	}
	if public := os.Getenv("PUBLIC"); public != "" {
		return filepath.Join(public, "Desktop")
	}
	return `C:\Users\Public\Desktop`
}

// ProgramFilesDir returns the 64-bit Program Files directory.
func ProgramFilesDir() string {
	if dir := os.Getenv("ProgramW6432"); dir != "" {
		return dir
	}
	return `C:\Program Files`
}
