package db

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	dbFetchCmd "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/db/fetch"
	dbInitCmd "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/db/init"
	dbSearchCmd "github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/db/search"
)

func NewCmdDB() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db <subcommand>",
		Short: "WinShield DB Operation",
		Example: heredoc.Doc(`
			$ winshield db init
			$ winshield db fetch
			$ winshield db fetch ghcr.io/erwinmagielda/winshield-db:latest
			$ winshield db search kb KB5034123
			$ winshield db search month 2024-Jan
		`),
	}

	cmd.AddCommand(dbInitCmd.NewCmd())
	cmd.AddCommand(dbFetchCmd.NewCmd())
	cmd.AddCommand(dbSearchCmd.NewCmd())

	return cmd
}
