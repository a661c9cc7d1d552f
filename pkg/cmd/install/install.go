package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/install"
	utilos "github.com/erwinmagielda/winshield-windows-patcher/pkg/util/os"
)

func NewCmd() *cobra.Command {
	options := struct {
		downloadsDir string
		debug        bool
	}{
		downloadsDir: filepath.Join(utilos.UserCacheDir(), "downloads"),
		debug:        false,
	}

	cmd := &cobra.Command{
		Use:   "install [<package>...]",
		Short: "install downloaded KB packages with wusa.exe/dism.exe",
		Example: heredoc.Doc(`
		$ winshield install
		$ winshield install downloads/windows11.0-kb5034123-x64_abc.msu
		`),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rebootRequired, err := install.Install(cmd.Context(), args, install.WithDownloadsDir(options.downloadsDir), install.WithDebug(options.debug))
			if err != nil {
				return errors.Wrap(err, "install")
			}
			if rebootRequired {
				fmt.Fprintln(os.Stdout, "reboot required to finish installation")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.downloadsDir, "downloads-dir", "", options.downloadsDir, "downloaded packages path")
	cmd.Flags().BoolVarP(&options.debug, "debug", "d", options.debug, "debug mode")

	return cmd
}
