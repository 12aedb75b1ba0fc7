package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/gorbak25/simple-blockchain/wallet"
)

// addressCmd represents the address command
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the public key for --account",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.Load(walletFile())
		if err != nil {
			log.Fatal(err)
		}

		acc, ok := w.Find(accountName)
		if !ok {
			log.Fatalf("no account named %q in %s", accountName, walletFile())
		}

		fmt.Println(acc.Pub.String())
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
