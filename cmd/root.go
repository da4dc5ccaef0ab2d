package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/rhmap/cmd/hash"
	"github.com/ValentinKolb/rhmap/cmd/table"
	"github.com/ValentinKolb/rhmap/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "rhmap",
		Short: "robin hood hash table toolkit",
		Long: fmt.Sprintf(`rhmap (v%s)

An in-memory hash table library built on open addressing with
robin hood collision resolution, plus command line tooling to
load, inspect and benchmark tables and hash strategies.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rhmap",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rhmap v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(table.TableCommands)
	RootCmd.AddCommand(hash.HashCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "hash"
	RootCmd.PersistentFlags().String(key, "sip", util.WrapString("hash strategy to use (sip, xx3, xx64, fnv)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
