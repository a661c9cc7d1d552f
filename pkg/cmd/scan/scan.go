package scan

import (
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	utilflag "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/util/flag"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/scan"
	utilos "github.com/erwinmagielda/winshield-windows-patcher/pkg/util/os"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/window"
)

func NewCmd() *cobra.Command {
	options := struct {
		resultsDir string
		scriptsDir string
		dbtype     utilflag.DBType
		dbpath     string
		maxMonths  int
		debug      bool
	}{
		resultsDir: filepath.Join(utilos.UserCacheDir(), "results"),
		scriptsDir: "scripts",
		dbtype:     utilflag.DBTypeBoltDB,
		dbpath:     filepath.Join(utilos.UserCacheDir(), "winshield.db"),
		maxMonths:  window.DefaultMaxMonths,
		debug:      false,
	}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "correlate installed KBs against MSRC months in the patch window",
		Example: heredoc.Doc(`
		$ winshield scan
		$ winshield scan --max-months 12
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := scan.Scan(cmd.Context(), scan.WithResultsDir(options.resultsDir), scan.WithScriptsDir(options.scriptsDir), scan.WithDBType(options.dbtype.String()), scan.WithDBPath(options.dbpath), scan.WithMaxMonths(options.maxMonths), scan.WithDebug(options.debug)); err != nil {
				return errors.Wrap(err, "scan")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.resultsDir, "results-dir", "", options.resultsDir, "winshield results path")
	cmd.Flags().StringVarP(&options.scriptsDir, "scripts-dir", "", options.scriptsDir, "PowerShell collectors path")
	cmd.Flags().VarP(&options.dbtype, "dbtype", "", "winshield db type (default: boltdb, accepts: [boltdb, redis, sqlite3, mysql, postgres])")
	_ = cmd.RegisterFlagCompletionFunc("dbtype", utilflag.DBTypeCompletion)
	cmd.Flags().StringVarP(&options.dbpath, "dbpath", "", options.dbpath, "winshield db path")
	cmd.Flags().IntVarP(&options.maxMonths, "max-months", "", options.maxMonths, "max months in the patch window")
	cmd.Flags().BoolVarP(&options.debug, "debug", "d", options.debug, "debug mode")

	return cmd
}
