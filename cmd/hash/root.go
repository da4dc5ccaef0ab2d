package hash

import (
	"github.com/ValentinKolb/rhmap/cmd/util"
	"github.com/ValentinKolb/rhmap/lib/hasher"
	tblutil "github.com/ValentinKolb/rhmap/lib/table/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	strategy hasher.Hasher
	seed     uint64

	// HashCommands represents the hash command group
	HashCommands = &cobra.Command{
		Use:               "hash",
		Short:             "Inspect and compare hash strategies",
		PersistentPreRunE: setupHash,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitCLIConfig)

	// Add Flags
	key := "seed"
	HashCommands.PersistentFlags().Uint64(key, 0, util.WrapString("Seed for the hash strategy (0 picks a random seed)"))

	// Add subcommands
	HashCommands.AddCommand(digestCmd)
	HashCommands.AddCommand(checkCmd)
}

// setupHash resolves the configured strategy and seed
func setupHash(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Apply the configured log level
	if err := util.ConfigureLogging(); err != nil {
		return err
	}

	var err error
	strategy, err = util.GetHasher()
	if err != nil {
		return err
	}

	seed = viper.GetUint64("seed")
	if seed == 0 {
		seed = tblutil.GenerateSeed()
	}

	return nil
}
