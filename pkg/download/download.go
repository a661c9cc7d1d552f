package download

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"
	progressbar "github.com/schollz/progressbar/v3"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/catalog"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
	utilos "github.com/erwinmagielda/winshield-windows-patcher/pkg/util/os"
)

type options struct {
	resultsDir   string
	downloadsDir string

	noProgress bool
	debug      bool
}

type Option interface {
	apply(*options)
}

type resultsDirOption string

func (o resultsDirOption) apply(opts *options) {
	opts.resultsDir = string(o)
}

func WithResultsDir(resultsDir string) Option {
	return resultsDirOption(resultsDir)
}

type downloadsDirOption string

func (o downloadsDirOption) apply(opts *options) {
	opts.downloadsDir = string(o)
}

func WithDownloadsDir(downloadsDir string) Option {
	return downloadsDirOption(downloadsDir)
}

type noProgressOption bool

func (o noProgressOption) apply(opts *options) {
	opts.noProgress = bool(o)
}

func WithNoProgress(noProgress bool) Option {
	return noProgressOption(noProgress)
}

type debugOption bool

func (o debugOption) apply(opts *options) {
	opts.debug = bool(o)
}

func WithDebug(debug bool) Option {
	return debugOption(debug)
}

// Download resolves each KB against the Update Catalog and saves its package
// under downloadsDir. KBs must be reported missing by the latest scan.
func Download(ctx context.Context, kbIDs []string, opts ...Option) error {
	options := &options{
		resultsDir:   filepath.Join(utilos.UserCacheDir(), "results"),
		downloadsDir: filepath.Join(utilos.UserCacheDir(), "downloads"),
		noProgress:   false,
		debug:        false,
	}
	for _, o := range opts {
		o.apply(options)
	}

	result, err := readScanResult(filepath.Join(options.resultsDir, "scan.json"))
	if err != nil {
		return errors.Wrap(err, "read scan result")
	}
	constraints := types.NewConstraints(result.Baseline)

	if err := os.MkdirAll(options.downloadsDir, 0755); err != nil {
		return errors.Wrapf(err, "mkdir %s", options.downloadsDir)
	}

	client := catalog.NewClient()
	for _, kbID := range kbIDs {
		if !slices.Contains(result.MissingKBs, kbID) {
			return errors.Errorf("%s is not missing on this host. missing: %q", kbID, result.MissingKBs)
		}

		slog.Info("Search Update Catalog", "kb", kbID)
		candidates, err := client.Search(ctx, kbID)
		if err != nil {
			return errors.Wrapf(err, "search %s", kbID)
		}

		candidate, err := catalog.Select(candidates, kbID, constraints)
		if err != nil {
			return errors.Wrapf(err, "select candidate for %s", kbID)
		}
		slog.Info("Selected Candidate", "kb", kbID, "update id", candidate.UpdateID, "title", candidate.Title)

		urls, err := client.DownloadURLs(ctx, candidate.UpdateID)
		if err != nil {
			return errors.Wrapf(err, "resolve download URLs for %s", kbID)
		}
		if len(urls) == 0 {
			return errors.Errorf("no package URLs for %s (update id: %s)", kbID, candidate.UpdateID)
		}

		name, err := packageName(urls[0])
		if err != nil {
			return errors.Wrapf(err, "derive package name for %s", kbID)
		}
		if err := fetch(ctx, urls[0], filepath.Join(options.downloadsDir, name), options.noProgress); err != nil {
			return errors.Wrapf(err, "download %s", kbID)
		}
	}

	return nil
}

func packageName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "parse %s", rawURL)
	}
	return path.Base(u.Path), nil
}

func readScanResult(p string) (types.ScanResult, error) {
	f, err := os.Open(p)
	if err != nil {
		return types.ScanResult{}, errors.Wrapf(err, "open %s. try winshield scan", p)
	}
	defer f.Close()

	var result types.ScanResult
	if err := json.NewDecoder(f).Decode(&result); err != nil {
		return types.ScanResult{}, errors.Wrapf(err, "decode %s", p)
	}

	return result, nil
}

func fetch(ctx context.Context, rawURL, dst string, noProgress bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrapf(err, "create request for %s", rawURL)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "get %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected response from %s. expected: %d, actual: %d", rawURL, http.StatusOK, resp.StatusCode)
	}

	f, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "create %s", dst)
	}
	defer f.Close()

	pb := func() *progressbar.ProgressBar {
		if noProgress {
			return progressbar.DefaultBytesSilent(resp.ContentLength)
		}
		return progressbar.DefaultBytes(resp.ContentLength, filepath.Base(dst))
	}()
	defer pb.Finish()

	if _, err := io.Copy(io.MultiWriter(f, pb), resp.Body); err != nil {
		return errors.Wrapf(err, "write to %s", dst)
	}

	return nil
}
