package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

// PowerShell collectors shipped alongside the binary. Each prints a single
// JSON document on stdout.
const (
	BaselineScript  = "winshield_baseline.ps1"
	InventoryScript = "winshield_inventory.ps1"
	AdapterScript   = "winshield_adapter.ps1"
)

type inventory struct {
	AllInstalledKBs []string `json:"AllInstalledKbs"`
}

type adapterResult struct {
	KBEntries []types.KBEntry `json:"KbEntries"`
}

// Baseline runs the baseline collector and returns the host metadata.
func Baseline(ctx context.Context, scriptsDir string) (types.Baseline, error) {
	var baseline types.Baseline
	if err := run(ctx, filepath.Join(scriptsDir, BaselineScript), nil, &baseline); err != nil {
		return types.Baseline{}, errors.Wrap(err, BaselineScript)
	}
	return baseline, nil
}

// InstalledKBs runs the inventory collector and returns the installed
// identifier set.
func InstalledKBs(ctx context.Context, scriptsDir string) ([]string, error) {
	var inv inventory
	if err := run(ctx, filepath.Join(scriptsDir, InventoryScript), nil, &inv); err != nil {
		return nil, errors.Wrap(err, InventoryScript)
	}
	return inv.AllInstalledKBs, nil
}

// MSRC runs the adapter collector for a batch of months and returns the
// partial KB records it reports.
func MSRC(ctx context.Context, scriptsDir string, months []string, productNameHint string) ([]types.KBEntry, error) {
	args := []string{
		"-MonthIds", strings.Join(months, ","),
		"-ProductNameHint", productNameHint,
	}

	var result adapterResult
	if err := run(ctx, filepath.Join(scriptsDir, AdapterScript), args, &result); err != nil {
		return nil, errors.Wrap(err, AdapterScript)
	}
	return result.KBEntries, nil
}

func run(ctx context.Context, script string, args []string, v any) error {
	cmd := exec.CommandContext(ctx, "powershell.exe",
		append([]string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-File", script}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "execute %s: %s", filepath.Base(script), strings.TrimSpace(stderr.String()))
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return errors.Errorf("%s returned no output", filepath.Base(script))
	}

	if err := json.Unmarshal(out, v); err != nil {
		return errors.Wrapf(err, "%s returned invalid JSON", filepath.Base(script))
	}

	return nil
}
