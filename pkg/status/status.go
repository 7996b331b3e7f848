// pkg/status/status.go - installed-state inspection for the managed product.
//
// Results are informational only: they are logged before and after the
// install/uninstall steps and never gate execution or the exit code.

package status

import (
	"fmt"
	"strings"

	version "github.com/hashicorp/go-version"
	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows/registry"

	"github.com/burnoil/PSinstall/pkg/logging"
)

// RegistryApplication contains attributes for an installed application.
type RegistryApplication struct {
	Key       string
	Name      string
	Version   string
	Uninstall string
	Location  string
}

var uninstallRegPaths = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`,
	`SOFTWARE\Wow6432Node\Microsoft\Windows\CurrentVersion\Uninstall`,
}

// Win32_Product mirrors the WMI class of the same name.
type Win32_Product struct {
	IdentifyingNumber string
	Name              string
	Version           string
}

// InstalledProduct looks up the MSI product code in the registry uninstall
// keys, falling back to a WMI query when no key exists. A nil result with a
// nil error means the product is not installed.
func InstalledProduct(productCode string) (*RegistryApplication, error) {
	for _, base := range uninstallRegPaths {
		keyPath := base + `\` + productCode
		app, err := readUninstallKey(keyPath)
		if err == nil && app != nil {
			return app, nil
		}
	}
	return queryProductWMI(productCode)
}

// readUninstallKey reads one uninstall registry subkey, if present.
func readUninstallKey(keyPath string) (*RegistryApplication, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, keyPath, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	app := &RegistryApplication{Key: keyPath}
	if name, _, err := key.GetStringValue("DisplayName"); err == nil {
		app.Name = name
	}
	if versionStr, _, err := key.GetStringValue("DisplayVersion"); err == nil {
		app.Version = versionStr
	}
	if uninstallStr, _, err := key.GetStringValue("UninstallString"); err == nil {
		app.Uninstall = uninstallStr
	}
	if location, _, err := key.GetStringValue("InstallLocation"); err == nil {
		app.Location = location
	}
	if app.Name == "" {
		return nil, fmt.Errorf("registry key %s has no DisplayName", keyPath)
	}
	return app, nil
}

// queryProductWMI asks WMI for the product. Slow, so only used when the
// registry keys are missing.
func queryProductWMI(productCode string) (*RegistryApplication, error) {
	var products []Win32_Product
	where := fmt.Sprintf("WHERE IdentifyingNumber = '%s'", strings.ReplaceAll(productCode, "'", ""))
	query := wmi.CreateQuery(&products, where)
	if err := wmi.Query(query, &products); err != nil {
		return nil, fmt.Errorf("WMI product query: %w", err)
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &RegistryApplication{
		Key:     "WMI:Win32_Product",
		Name:    products[0].Name,
		Version: products[0].Version,
	}, nil
}

// CompareToExpected classifies the installed version against the expected
// one: "older", "newer", or "current". Returns "unknown" when either side is
// empty or fails to parse.
func CompareToExpected(installed, expected string) string {
	if installed == "" || expected == "" {
		return "unknown"
	}
	vInstalled, errInstalled := version.NewVersion(installed)
	vExpected, errExpected := version.NewVersion(expected)
	if errInstalled != nil || errExpected != nil {
		logging.Debug("Version parse error, skipping comparison",
			"installed", installed, "expected", expected,
			"errInstalled", errInstalled, "errExpected", errExpected)
		return "unknown"
	}
	switch {
	case vInstalled.LessThan(vExpected):
		return "older"
	case vExpected.LessThan(vInstalled):
		return "newer"
	default:
		return "current"
	}
}

// Report logs the product's current installed state, including how the
// installed version relates to the expected one when both are known. phase
// labels when the check ran (e.g. "before-uninstall").
func Report(productCode, expectedVersion, phase string) {
	app, err := InstalledProduct(productCode)
	if err != nil {
		logging.Warn("Unable to determine installed state",
			"product_code", productCode, "phase", phase, "error", err)
		return
	}
	if app == nil {
		logging.Info("Product not registered as installed",
			"product_code", productCode, "phase", phase)
		return
	}
	logging.Info("Product registered as installed",
		"product_code", productCode, "phase", phase,
		"name", app.Name, "version", app.Version, "source", app.Key)
	if relation := CompareToExpected(app.Version, expectedVersion); relation != "unknown" {
		logging.Info("Installed version relative to expected",
			"installed", app.Version, "expected", expectedVersion, "relation", relation)
	}
}
