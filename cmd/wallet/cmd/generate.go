package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/gorbak25/simple-blockchain/wallet"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair and store it under --account",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.Load(walletFile())
		if err != nil {
			log.Fatal(err)
		}

		acc, err := w.Generate(accountName)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(acc.Pub.String())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
