package cmd

import (
	"fmt"
	"os"

	"github.com/pgschema/pgenum/cmd/alter"
	"github.com/pgschema/pgenum/cmd/plan"
	"github.com/pgschema/pgenum/internal/logger"
	"github.com/pgschema/pgenum/internal/version"
	"github.com/spf13/cobra"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "pgenum",
	Short: "PostgreSQL enum column retyping tool",
	Long: fmt.Sprintf(`pgenum retypes PostgreSQL enum columns in place, renaming and
removing enum values while migrating the stored rows.

Version: %s

Commands:
  plan    Show the statements an alteration request would run
  alter   Apply an alteration request
  version Show version information

Use "pgenum [command] --help" for more information about a command.`, version.String()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(cmd.ErrOrStderr(), Debug)
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(plan.PlanCmd)
	RootCmd.AddCommand(alter.AlterCmd)
	RootCmd.AddCommand(VersionCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
