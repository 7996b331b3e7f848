// pkg/installer/installer.go - silent installer and uninstaller invocations.
//
// Every launch is a single blocking call with the child's output captured to
// a named file under the log directory. MSI operations additionally pass
// /l*v so msiexec writes its own verbose log. There are no timeouts; each
// call waits until the child exits.

package installer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"
)

var commandMsi = filepath.Join(os.Getenv("WINDIR"), "system32", "msiexec.exe")

// execCommand is abstracted for testing.
var execCommand = exec.Command

// fileExists checks if a file exists on the filesystem.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func hideConsoleWindow(cmd *exec.Cmd) {
	if runtime.GOOS == "windows" {
		cmd.SysProcAttr = &syscall.SysProcAttr{
			HideWindow: true,
		}
	}
}

// runCMD executes a command and blocks until it exits, capturing combined
// output in memory. The child's exit code is returned alongside any error.
func runCMD(command string, arguments []string) (string, int, error) {
	cmd := execCommand(command, arguments...)
	hideConsoleWindow(cmd)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		combinedErr := fmt.Errorf("command execution failed: %w | stderr: %s", err, stderr.String())
		return out.String(), exitCode, combinedErr
	}
	return out.String(), exitCode, nil
}

// runCMDToFile executes a command and blocks until it exits, redirecting both
// stdout and stderr to outputPath (appending, so reruns keep history).
func runCMDToFile(command string, arguments []string, outputPath string) (int, error) {
	cmd := execCommand(command, arguments...)
	hideConsoleWindow(cmd)

	file, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("opening output log %s: %w", outputPath, err)
	}
	defer file.Close()
	cmd.Stdout = file
	cmd.Stderr = file

	err = cmd.Run()
	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return exitCode, fmt.Errorf("command execution failed: %w", err)
	}
	return exitCode, nil
}

// msiInstallArgs builds the msiexec argument list for a silent install with a
// verbose MSI log.
func msiInstallArgs(msiPath, msiLogPath string) []string {
	return []string{"/i", msiPath, "/qn", "/norestart", "/l*v", msiLogPath}
}

// msiRemoveArgs builds the msiexec argument list for a silent removal of the
// product code with a verbose MSI log.
func msiRemoveArgs(productCode, msiLogPath string) []string {
	return []string{"/x", productCode, "/qn", "/norestart", "/l*v", msiLogPath}
}

// InstallMSI runs a silent MSI install of msiPath, with msiexec's verbose log
// written to msiLogPath. The MSI file must already exist; callers decide what
// a missing file means.
func InstallMSI(msiPath, msiLogPath string) error {
	if !fileExists(msiPath) {
		return fmt.Errorf("MSI file does not exist: %s", msiPath)
	}
	// msiexec is normally silent on stdout; the /l*v log carries the detail.
	_, exitCode, err := runCMD(commandMsi, msiInstallArgs(msiPath, msiLogPath))
	if err != nil {
		return fmt.Errorf("msiexec install of %s (exit %d): %w", msiPath, exitCode, err)
	}
	return nil
}

// RemoveMSIProduct runs a silent msiexec removal of the given product code.
// A product that is not installed surfaces as a non-zero msiexec exit, which
// callers treat as a logged, non-fatal outcome.
func RemoveMSIProduct(productCode, msiLogPath string) error {
	if productCode == "" {
		return errors.New("product code is empty")
	}
	_, exitCode, err := runCMD(commandMsi, msiRemoveArgs(productCode, msiLogPath))
	if err != nil {
		return fmt.Errorf("msiexec removal of %s (exit %d): %w", productCode, exitCode, err)
	}
	return nil
}

// RunEXE launches an executable with the given arguments, redirecting stdout
// and stderr to outputPath, and blocks until it exits. Used for both the
// setup EXE and the bundled uninstallers.
func RunEXE(exePath string, arguments []string, outputPath string) error {
	if !fileExists(exePath) {
		return fmt.Errorf("executable does not exist: %s", exePath)
	}
	exitCode, err := runCMDToFile(exePath, arguments, outputPath)
	if err != nil {
		return fmt.Errorf("running %s (exit %d): %w", exePath, exitCode, err)
	}
	return nil
}
