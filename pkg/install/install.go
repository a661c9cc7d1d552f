package install

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"

	utilos "github.com/erwinmagielda/winshield-windows-patcher/pkg/util/os"
)

// Windows Update installers exit 3010 when the update applied but a reboot
// is pending.
const exitRebootRequired = 3010

var kbLabelPattern = regexp.MustCompile(`(?i)kb\d{4,8}`)

type options struct {
	downloadsDir string

	debug bool
}

type Option interface {
	apply(*options)
}

type downloadsDirOption string

func (o downloadsDirOption) apply(opts *options) {
	opts.downloadsDir = string(o)
}

func WithDownloadsDir(downloadsDir string) Option {
	return downloadsDirOption(downloadsDir)
}

type debugOption bool

func (o debugOption) apply(opts *options) {
	opts.debug = bool(o)
}

func WithDebug(debug bool) Option {
	return debugOption(debug)
}

// Package is one installable update found under the downloads directory.
type Package struct {
	Path string
	KB   string
}

// Packages lists the .msu and .cab packages under dir, ordered by file name.
func Packages(dir string) ([]Package, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}

	var pkgs []Package
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(de.Name())) {
		case ".msu", ".cab":
			pkgs = append(pkgs, Package{
				Path: filepath.Join(dir, de.Name()),
				KB:   strings.ToUpper(kbLabelPattern.FindString(de.Name())),
			})
		}
	}
	slices.SortFunc(pkgs, func(a, b Package) int { return strings.Compare(a.Path, b.Path) })

	return pkgs, nil
}

// Install applies the named packages in order, or every package under the
// downloads directory when paths is empty. rebootRequired reports whether at
// least one installer asked for a restart.
func Install(ctx context.Context, paths []string, opts ...Option) (rebootRequired bool, err error) {
	options := &options{
		downloadsDir: filepath.Join(utilos.UserCacheDir(), "downloads"),
		debug:        false,
	}
	for _, o := range opts {
		o.apply(options)
	}

	var pkgs []Package
	if len(paths) > 0 {
		for _, p := range paths {
			pkgs = append(pkgs, Package{
				Path: p,
				KB:   strings.ToUpper(kbLabelPattern.FindString(filepath.Base(p))),
			})
		}
	} else {
		pkgs, err = Packages(options.downloadsDir)
		if err != nil {
			return false, errors.Wrap(err, "list packages")
		}
	}
	if len(pkgs) == 0 {
		return false, errors.Errorf("no .msu or .cab packages in %s. try winshield download", options.downloadsDir)
	}

	for _, pkg := range pkgs {
		slog.Info("Install Package", "kb", pkg.KB, "path", pkg.Path)
		reboot, err := install(ctx, pkg)
		if err != nil {
			return rebootRequired, errors.Wrapf(err, "install %s", pkg.Path)
		}
		if reboot {
			rebootRequired = true
		}
	}

	return rebootRequired, nil
}

func install(ctx context.Context, pkg Package) (bool, error) {
	var cmd *exec.Cmd
	switch strings.ToLower(filepath.Ext(pkg.Path)) {
	case ".msu":
		cmd = exec.CommandContext(ctx, "wusa.exe", pkg.Path, "/quiet", "/norestart")
	case ".cab":
		cmd = exec.CommandContext(ctx, "dism.exe", "/Online", "/Add-Package", "/PackagePath:"+pkg.Path, "/Quiet", "/NoRestart")
	default:
		return false, errors.Errorf("unexpected package extension. expected: %q, actual: %q", []string{".msu", ".cab"}, filepath.Ext(pkg.Path))
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitRebootRequired {
			return true, nil
		}
		return false, errors.Wrapf(err, "execute %s: %s", cmd.Args[0], strings.TrimSpace(stderr.String()))
	}

	return false, nil
}
