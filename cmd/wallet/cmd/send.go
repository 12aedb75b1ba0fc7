package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
	"github.com/gorbak25/simple-blockchain/node"
	"github.com/gorbak25/simple-blockchain/wallet"
)

var (
	to     string
	amount uint64
	fee    uint64
)

// sendCmd represents the send command. It submits a transfer to the node's
// mempool and waits for it to be mined into a block, since this toy chain
// has no networking for a separate daemon to pick the transaction up from.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and mine a transfer from --account to --to",
	Run: func(cmd *cobra.Command, args []string) {
		toPub, err := signature.ParsePublicKey(to)
		if err != nil {
			log.Fatalf("invalid --to public key: %s", err)
		}

		w, err := wallet.Load(walletFile())
		if err != nil {
			log.Fatal(err)
		}

		from, ok := w.Find(accountName)
		if !ok {
			log.Fatalf("no account named %q in %s", accountName, walletFile())
		}

		n, err := node.New(node.Config{DataDir: storePath, MinerAccount: from})
		if err != nil {
			log.Fatal(err)
		}
		defer n.Shutdown()

		tx, err := w.SignTransfer(from, toPub, amount, fee, n.Store.VerifyTransactionBody)
		if err != nil {
			log.Fatal(err)
		}

		startHeight := n.Chain.Height()
		if err := n.SubmitTransaction(tx); err != nil {
			log.Fatal(err)
		}

		for timeout := time.After(2 * time.Minute); ; {
			select {
			case <-timeout:
				log.Fatal("timed out waiting for the transfer to be mined")
			default:
			}
			if n.Chain.Height() > startHeight {
				break
			}
			time.Sleep(250 * time.Millisecond)
		}

		fmt.Printf("mined at height %d\n", n.Chain.Height())
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient public key (0x-prefixed hex).")
	sendCmd.MarkFlagRequired("to")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.Flags().Uint64VarP(&fee, "fee", "f", 0, "Transaction fee.")
}
