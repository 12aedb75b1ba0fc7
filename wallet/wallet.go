// Package wallet is the local keystore: it persists signing keys as a JSON
// array of {id, pub, priv} objects, signs transfers with a randomly
// chosen nonce (retrying on InvalidNonce), and produces the miner self-proof
// the block header carries.
package wallet

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// Account is one signing identity held by the wallet: a public key used as
// account identity on the chain and the private key that proves ownership
// of it.
type Account struct {
	ID   string
	Pub  signature.PublicKey
	Priv signature.PrivateKey
}

// entry is the on-disk representation of an Account: a JSON object with
// "id", "pub" and "priv" fields, the keys base64-encoded. The wallet file is
// a JSON array of these objects; positional [id, pub, priv] arrays are
// neither written nor read.
type entry struct {
	ID   string `json:"id"   validate:"required"`
	Pub  string `json:"pub"  validate:"required,base64"`
	Priv string `json:"priv" validate:"required,base64"`
}

var validate = validator.New()

// Wallet is a single-writer, multi-reader keystore backed by a JSON file.
type Wallet struct {
	mu       sync.RWMutex
	path     string
	accounts []Account
}

// Load reads accounts from path, validating each entry's shape. A missing
// file is not an error: it yields an empty wallet, the same way chain.Load
// treats a missing chain file as a fresh start.
func Load(path string) (*Wallet, error) {
	w := &Wallet{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return w, nil
		}
		return nil, err
	}

	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("wallet: decode %s: %w", path, err)
	}

	accounts := make([]Account, 0, len(entries))
	for _, e := range entries {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("wallet: invalid entry %q in %s: %w", e.ID, path, err)
		}

		pubBytes, err := base64.StdEncoding.DecodeString(e.Pub)
		if err != nil || len(pubBytes) != signature.PublicKeySize {
			return nil, fmt.Errorf("wallet: entry %q: malformed public key", e.ID)
		}
		privBytes, err := base64.StdEncoding.DecodeString(e.Priv)
		if err != nil || len(privBytes) != signature.PrivateKeySize {
			return nil, fmt.Errorf("wallet: entry %q: malformed private key", e.ID)
		}

		var acc Account
		acc.ID = e.ID
		copy(acc.Pub[:], pubBytes)
		copy(acc.Priv[:], privBytes)
		accounts = append(accounts, acc)
	}

	w.accounts = accounts
	return w, nil
}

// save writes the wallet's accounts to disk as the JSON triple format.
// Callers must hold w.mu for writing.
func (w *Wallet) save() error {
	entries := make([]entry, len(w.accounts))
	for i, acc := range w.accounts {
		entries[i] = entry{
			ID:   acc.ID,
			Pub:  base64.StdEncoding.EncodeToString(acc.Pub[:]),
			Priv: base64.StdEncoding.EncodeToString(acc.Priv[:]),
		}
	}

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(w.path, raw, 0o600)
}

// Generate creates a fresh key pair, appends it to the wallet under id, and
// persists the result.
func (w *Wallet) Generate(id string) (Account, error) {
	pub, priv, err := signature.GenerateKey()
	if err != nil {
		return Account{}, err
	}

	acc := Account{ID: id, Pub: pub, Priv: priv}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.accounts = append(w.accounts, acc)
	if err := w.save(); err != nil {
		return Account{}, err
	}

	return acc, nil
}

// Accounts returns a copy of every account the wallet holds.
func (w *Wallet) Accounts() []Account {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Account, len(w.accounts))
	copy(out, w.accounts)
	return out
}

// Find looks up an account by id.
func (w *Wallet) Find(id string) (Account, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, acc := range w.accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return Account{}, false
}

// randomNonce draws a uniformly random 64-bit nonce, per spec.md §4.7.
func randomNonce() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// SignTransfer builds and signs a Transaction from acc to the given
// recipient. It draws a random nonce and hands the resulting body to verify
// before signing; on InvalidNonce it draws a fresh nonce and retries, per
// spec.md §4.7.
func (w *Wallet) SignTransfer(acc Account, to signature.PublicKey, amount, fee uint64, verify func(codec.TransactionBody) error) (codec.Transaction, error) {
	for {
		nonce, err := randomNonce()
		if err != nil {
			return codec.Transaction{}, err
		}

		body := codec.TransactionBody{
			From:           acc.Pub,
			To:             to,
			Amount:         amount,
			Nonce:          nonce,
			TransactionFee: fee,
		}

		if verify != nil {
			if err := verify(body); err != nil {
				if chainerr.Is(err, chainerr.InvalidNonce) {
					continue
				}
				return codec.Transaction{}, err
			}
		}

		sig, err := signature.Sign(acc.Priv, signature.Hash256(body.Bytes()))
		if err != nil {
			return codec.Transaction{}, err
		}

		return codec.Transaction{Body: body, Signature: sig}, nil
	}
}

// MinerProof produces ECDSA_sign(priv, SHA256(pub)), the self-proof a block
// header carries to show the block was assembled by the holder of
// acc.Priv, per spec.md §4.7.
func (w *Wallet) MinerProof(acc Account) ([]byte, error) {
	return signature.Sign(acc.Priv, signature.Hash256(acc.Pub[:]))
}
