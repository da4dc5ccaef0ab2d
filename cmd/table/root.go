package table

import (
	"github.com/ValentinKolb/rhmap/cmd/util"
	"github.com/ValentinKolb/rhmap/lib/table"
	"github.com/spf13/cobra"
)

var (
	tbl table.Map[[]byte]

	// TableCommands represents the table command group
	TableCommands = &cobra.Command{
		Use:               "table",
		Short:             "Operate on an in-process hash table",
		PersistentPreRunE: setupTable,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitCLIConfig)

	// Add common table flags to the command group
	util.SetupTableFlags(TableCommands)

	// Add subcommands
	TableCommands.AddCommand(loadCmd)
	TableCommands.AddCommand(walkCmd)
	TableCommands.AddCommand(verifyCmd)
	TableCommands.AddCommand(infoCmd)
	TableCommands.AddCommand(shellCmd)
	TableCommands.AddCommand(perfTestCmd)
}

// setupTable creates the backing table from the configured options
func setupTable(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Apply the configured log level
	if err := util.ConfigureLogging(); err != nil {
		return err
	}

	// Create the table all subcommands work on
	var err error
	tbl, err = util.NewTable()

	return err
}
