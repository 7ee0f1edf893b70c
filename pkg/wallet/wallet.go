package wallet

/**
 * Wallet Service
 *
 * What is my purpose?
 * - You hold the account keys
 */

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

type Wallet struct {
	lock     sync.RWMutex
	KeyStore *KeyStore
}

func New() *Wallet {
	return &Wallet{
		KeyStore: NewKeyStore(),
	}
}

func (w *Wallet) Add(key *Key) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.KeyStore.Add(key)
}

func (w *Wallet) Remove(key *Key) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.KeyStore.Remove(key)
}

// Register adds a key from a hex private key.
func (w *Wallet) Register(secret string) (*Key, error) {
	if len(secret) == 0 {
		return nil, errors.New("Create wallet failed: missing secret")
	}

	key, err := NewKeyFromHex(secret)
	if err != nil {
		return nil, err
	}

	if err := w.Add(key); err != nil {
		return nil, err
	}
	return key, nil
}

func (w *Wallet) Get(address common.Address) (*Key, error) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.KeyStore.Get(address)
}

// Addresses returns the addresses of all keys in the wallet.
func (w *Wallet) Addresses() []common.Address {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.KeyStore.GetAddresses()
}

func (w *Wallet) ListAll() []*Key {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.KeyStore.GetAll()
}
