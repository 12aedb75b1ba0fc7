// This is the starting point for the wallet application. The wallet
// manages a local keystore and lets its owner inspect balances and send
// transfers against a node's data directory.
package main

import "github.com/gorbak25/simple-blockchain/cmd/wallet/cmd"

func main() {
	cmd.Execute()
}
