package wallet

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrKeyNotFound = errors.New("Key not found")
)

type KeyStore struct {
	Keys map[common.Address]*Key
}

func NewKeyStore() *KeyStore {
	return &KeyStore{
		Keys: make(map[common.Address]*Key),
	}
}

func (k KeyStore) Add(key *Key) error {
	if key == nil || key.PrivateKey == nil {
		return errors.New("Missing private key")
	}
	k.Keys[key.Address] = key
	return nil
}

func (k KeyStore) Remove(key *Key) error {
	if _, ok := k.Keys[key.Address]; !ok {
		return ErrKeyNotFound
	}
	delete(k.Keys, key.Address)
	return nil
}

// Get returns the key corresponding to the specified address.
func (k KeyStore) Get(address common.Address) (*Key, error) {
	key, ok := k.Keys[address]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

// GetAddresses returns the addresses of all keys in byte order.
func (k KeyStore) GetAddresses() []common.Address {
	result := make([]common.Address, 0, len(k.Keys))
	for address := range k.Keys {
		result = append(result, address)
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i][:], result[j][:]) < 0
	})
	return result
}

func (k KeyStore) GetAll() []*Key {
	result := make([]*Key, 0, len(k.Keys))
	for _, address := range k.GetAddresses() {
		result = append(result, k.Keys[address])
	}
	return result
}
