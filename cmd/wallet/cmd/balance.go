package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chain"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/database"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/mempool"
	"github.com/gorbak25/simple-blockchain/wallet"
)

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance for --account, derived from the node's chain file",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.Load(walletFile())
		if err != nil {
			log.Fatal(err)
		}

		acc, ok := w.Find(accountName)
		if !ok {
			log.Fatalf("no account named %q in %s", accountName, walletFile())
		}

		store := database.New()
		if _, err := chain.Load(storePath, store, mempool.New(), nil); err != nil {
			log.Fatal(err)
		}

		fmt.Println(store.GetBalance(acc.Pub))
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
