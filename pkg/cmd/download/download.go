package download

import (
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/download"
	utilos "github.com/erwinmagielda/winshield-windows-patcher/pkg/util/os"
)

func NewCmd() *cobra.Command {
	options := struct {
		resultsDir   string
		downloadsDir string
		noProgress   bool
		debug        bool
	}{
		resultsDir:   filepath.Join(utilos.UserCacheDir(), "results"),
		downloadsDir: filepath.Join(utilos.UserCacheDir(), "downloads"),
		noProgress:   false,
		debug:        false,
	}

	cmd := &cobra.Command{
		Use:   "download <KB ID>...",
		Short: "download missing KB packages from the Microsoft Update Catalog",
		Example: heredoc.Doc(`
		$ winshield download KB5034123
		$ winshield download KB5034123 KB5034441
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := download.Download(cmd.Context(), args, download.WithResultsDir(options.resultsDir), download.WithDownloadsDir(options.downloadsDir), download.WithNoProgress(options.noProgress), download.WithDebug(options.debug)); err != nil {
				return errors.Wrap(err, "download")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.resultsDir, "results-dir", "", options.resultsDir, "winshield results path")
	cmd.Flags().StringVarP(&options.downloadsDir, "downloads-dir", "", options.downloadsDir, "downloaded packages path")
	cmd.Flags().BoolVarP(&options.noProgress, "no-progress", "", options.noProgress, "no progress bar")
	cmd.Flags().BoolVarP(&options.debug, "debug", "d", options.debug, "debug mode")

	return cmd
}
