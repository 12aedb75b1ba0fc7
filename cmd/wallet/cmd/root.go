// Package cmd contains wallet app
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	accountName string
	storePath   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple wallet",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "account1", "Name of the account inside the wallet file.")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "./.simple_blockchain/", "Path to the node's data directory.")
}

func walletFile() string {
	return filepath.Join(storePath, "wallet.dat")
}
