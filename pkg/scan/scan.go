package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/collector"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/correlate"
	db "github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common"
	dbTypes "github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common/types"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
	utilos "github.com/erwinmagielda/winshield-windows-patcher/pkg/util/os"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/version"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/window"
)

// adapterChunkSize is how many months one adapter invocation covers. The
// MSRC endpoint throttles aggressively on larger batches.
const adapterChunkSize = 3

type options struct {
	resultsDir string
	scriptsDir string
	dbtype     string
	dbpath     string
	maxMonths  int

	debug bool
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

type scriptsDirOption string

func (o scriptsDirOption) apply(opts *options) {
	opts.scriptsDir = string(o)
}

func WithScriptsDir(scriptsDir string) Option {
	return scriptsDirOption(scriptsDir)
}

type dbtypeOption string

func (o dbtypeOption) apply(opts *options) {
	opts.dbtype = string(o)
}

func WithDBType(dbtype string) Option {
	return dbtypeOption(dbtype)
}

type dbpathOption string

func (o dbpathOption) apply(opts *options) {
	opts.dbpath = string(o)
}

func WithDBPath(dbpath string) Option {
	return dbpathOption(dbpath)
}

type maxMonthsOption int

func (o maxMonthsOption) apply(opts *options) {
	opts.maxMonths = int(o)
}

func WithMaxMonths(maxMonths int) Option {
	return maxMonthsOption(maxMonths)
}

type debugOption bool

func (o debugOption) apply(opts *options) {
	opts.debug = bool(o)
}

func WithDebug(debug bool) Option {
	return debugOption(debug)
}

// Scan collects the host baseline and inventory, correlates installed KBs
// against the MSRC months in the patch window, and writes scan.json under
// resultsDir.
func Scan(ctx context.Context, opts ...Option) error {
	options := &options{
		resultsDir: filepath.Join(utilos.UserCacheDir(), "results"),
		scriptsDir: "scripts",
		dbtype:     "boltdb",
		dbpath:     filepath.Join(utilos.UserCacheDir(), "winshield.db"),
		maxMonths:  window.DefaultMaxMonths,
		debug:      false,
	}
	for _, o := range opts {
		o.apply(options)
	}

	slog.Info("Collect Baseline")
	baseline, err := collector.Baseline(ctx, options.scriptsDir)
	if err != nil {
		return errors.Wrap(err, "collect baseline")
	}
	if baseline.ProductNameHint == "" {
		return errors.New("baseline does not set ProductNameHint. required for MSRC affected-product filtering")
	}

	slog.Info("Collect Installed KBs")
	installed, err := collector.InstalledKBs(ctx, options.scriptsDir)
	if err != nil {
		return errors.Wrap(err, "collect installed KBs")
	}
	slices.Sort(installed)
	installed = slices.Compact(installed)

	months, err := window.Build(baseline, window.WithMaxMonths(options.maxMonths))
	if err != nil {
		return errors.Wrap(err, "build patch window")
	}
	slog.Info("Patch Window", "months", len(months), "start", months[0], "end", months[len(months)-1])

	dbc, err := (&db.Config{
		Type:  options.dbtype,
		Path:  options.dbpath,
		Debug: options.debug,
	}).New()
	if err != nil {
		return errors.Wrap(err, "new db connection")
	}
	if err := dbc.Open(); err != nil {
		return errors.Wrap(err, "open db")
	}
	defer dbc.Close()

	cached := make(map[string][]types.KBEntry, len(months))
	var misses []string
	for _, id := range months {
		m, err := dbc.GetMonth(id)
		if err != nil {
			return errors.Wrapf(err, "get month %s", id)
		}
		if m == nil {
			misses = append(misses, id)
			continue
		}
		cached[id] = m.KBEntries
	}
	slog.Info("Catalog Cache", "hit", len(cached), "miss", len(misses))

	for start := 0; start < len(misses); start += adapterChunkSize {
		chunk := misses[start:min(start+adapterChunkSize, len(misses))]
		slog.Info("Query MSRC", "months", chunk)
		entries, err := collector.MSRC(ctx, options.scriptsDir, chunk, baseline.ProductNameHint)
		if err != nil {
			return errors.Wrapf(err, "query MSRC for %q", chunk)
		}

		for _, id := range chunk {
			var ms []types.KBEntry
			for _, entry := range entries {
				if slices.Contains(entry.Months, id) {
					ms = append(ms, entry)
				}
			}
			if err := dbc.PutMonth(dbTypes.Month{
				ID:        id,
				KBEntries: ms,
				FetchedAt: time.Now().UTC(),
			}); err != nil {
				return errors.Wrapf(err, "put month %s", id)
			}
			cached[id] = ms
		}
	}

	acc := make(map[string]*types.KBEntry)
	var monthsWithEntries []string
	for _, id := range months {
		if len(cached[id]) == 0 {
			continue
		}
		monthsWithEntries = append(monthsWithEntries, id)
		correlate.Merge(acc, cached[id])
	}
	entries := correlate.Finalize(acc)

	logicalPresent, supersededBy := correlate.Resolve(entries, installed)
	missing := correlate.Missing(entries, logicalPresent)
	rows := correlate.Report(entries, installed, logicalPresent, supersededBy)

	render(os.Stdout, rows, missing)

	result := types.ScanResult{
		JSONVersion: 1,
		ScanID:      uuid.NewString(),

		Baseline:          baseline,
		InstalledKBs:      installed,
		MonthsRequested:   months,
		MonthsWithEntries: monthsWithEntries,
		KBEntries:         entries,
		MissingKBs:        missing,

		ScannedAt: time.Now(),
		ScannedBy: version.String(),
	}

	if err := os.MkdirAll(options.resultsDir, 0755); err != nil {
		return errors.Wrapf(err, "mkdir %s", options.resultsDir)
	}

	f, err := os.Create(filepath.Join(options.resultsDir, "scan.json"))
	if err != nil {
		return errors.Wrapf(err, "create %s", filepath.Join(options.resultsDir, "scan.json"))
	}
	defer f.Close()

	e := json.NewEncoder(f)
	e.SetEscapeHTML(false)
	e.SetIndent("", "  ")
	if err := e.Encode(result); err != nil {
		return errors.Wrapf(err, "encode %s", filepath.Join(options.resultsDir, "scan.json"))
	}

	return nil
}

func render(w io.Writer, rows []correlate.Row, missing []string) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "KB\tTYPE\tSTATUS\tSUPERSEDED BY")
	counts := map[correlate.Status]int{}
	for _, row := range rows {
		counts[row.Status]++
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.KB, row.UpdateType, row.Status, strings.Join(row.SupersededBy, ", "))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d installed, %d superseded, %d missing\n", counts[correlate.StatusInstalled], counts[correlate.StatusSuperseded], counts[correlate.StatusMissing])
	if len(missing) > 0 {
		fmt.Fprintf(w, "missing: %s\n", strings.Join(missing, ", "))
	}
}
