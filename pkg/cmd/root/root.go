package root

import (
	"github.com/spf13/cobra"

	dbCmd "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/db"
	downloadCmd "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/download"
	installCmd "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/install"
	scanCmd "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/scan"
	versionCmd "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/version"
)

func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "winshield <command>",
		Short:         "Windows Update Correlation and Patching: WinShield",
		Long:          "Windows Update Correlation and Patching: WinShield",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(
		scanCmd.NewCmd(),
		downloadCmd.NewCmd(),
		installCmd.NewCmd(),
		dbCmd.NewCmdDB(),
		versionCmd.NewCmd(),
	)

	return cmd
}
