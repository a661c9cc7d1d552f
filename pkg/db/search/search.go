package search

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/correlate"
	db "github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
	utilos "github.com/erwinmagielda/winshield-windows-patcher/pkg/util/os"
)

type options struct {
	dbtype string
	dbpath string

	debug bool
}

type Option interface {
	apply(*options)
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

type debugOption bool

func (o debugOption) apply(opts *options) {
	opts.debug = bool(o)
}

func WithDebug(debug bool) Option {
	return debugOption(debug)
}

// Search prints the canonical merged record for each queried KB, built from
// every cached month in the catalog DB.
func Search(searchType string, queries []string, opts ...Option) error {
	options := &options{
		dbtype: "boltdb",
		dbpath: filepath.Join(utilos.UserCacheDir(), "winshield.db"),
		debug:  false,
	}
	for _, o := range opts {
		o.apply(options)
	}

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

	slog.Info("Get Metadata")
	meta, err := dbc.GetMetadata()
	if err != nil || meta == nil {
		return errors.Wrap(err, "get metadata")
	}
	if meta.SchemaVersion < db.SchemaVersion {
		return errors.Errorf("schema version is old. expected: %q, actual: %q", db.SchemaVersion, meta.SchemaVersion)
	}

	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	e.SetEscapeHTML(false)
	switch searchType {
	case "kb":
		ids, err := dbc.ListMonths()
		if err != nil {
			return errors.Wrap(err, "list months")
		}

		acc := make(map[string]*types.KBEntry)
		for _, id := range ids {
			m, err := dbc.GetMonth(id)
			if err != nil {
				return errors.Wrapf(err, "get month %s", id)
			}
			if m == nil {
				continue
			}
			correlate.Merge(acc, m.KBEntries)
		}
		entries := correlate.Finalize(acc)

		for _, q := range queries {
			slog.Info("Get KB Entry", "kb", q)
			i := slices.IndexFunc(entries, func(entry types.KBEntry) bool { return entry.KB == q })
			if i < 0 {
				return errors.Errorf("%s is not found in cached months", q)
			}
			if err := e.Encode(entries[i]); err != nil {
				return errors.Wrapf(err, "encode %s", q)
			}
		}

		return nil
	case "month":
		for _, q := range queries {
			slog.Info("Get Month", "month id", q)
			m, err := dbc.GetMonth(q)
			if err != nil {
				return errors.Wrapf(err, "get month %s", q)
			}
			if m == nil {
				return errors.Errorf("%s is not found in cached months", q)
			}
			if err := e.Encode(m); err != nil {
				return errors.Wrapf(err, "encode %s", q)
			}
		}

		return nil
	default:
		return errors.Errorf("unexpected search type. expected: %q, actual: %q", []string{"kb", "month"}, searchType)
	}
}
