package fetch

import (
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	db "github.com/erwinmagielda/winshield-windows-patcher/pkg/db/fetch"
	utilos "github.com/erwinmagielda/winshield-windows-patcher/pkg/util/os"
)

func NewCmd() *cobra.Command {
	options := struct {
		dbpath     string
		noProgress bool
		debug      bool
	}{
		dbpath:     filepath.Join(utilos.UserCacheDir(), "winshield.db"),
		noProgress: false,
		debug:      false,
	}

	cmd := &cobra.Command{
		Use:   "fetch [<repository>]",
		Short: "fetch winshield db",
		Example: heredoc.Doc(`
		$ winshield db fetch
		$ winshield db fetch ghcr.io/erwinmagielda/winshield-db:latest
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts := []db.Option{db.WithDBPath(options.dbpath), db.WithNoProgress(options.noProgress), db.WithDebug(options.debug)}
			if len(args) == 1 {
				opts = append(opts, db.WithRepository(args[0]))
			}
			if err := db.Fetch(opts...); err != nil {
				return errors.Wrap(err, "db fetch")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.dbpath, "dbpath", "", options.dbpath, "winshield db path")
	cmd.Flags().BoolVarP(&options.noProgress, "no-progress", "", options.noProgress, "no progress bar")
	cmd.Flags().BoolVarP(&options.debug, "debug", "d", options.debug, "debug mode")

	return cmd
}
