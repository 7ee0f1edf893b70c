package wallet

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	bip32 "github.com/tyler-smith/go-bip32"
)

var (
	ErrPublicExtendedKey = errors.New("Extended key is not private")
)

// Key is a signing key and the account address it controls.
type Key struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

func NewKey(key *ecdsa.PrivateKey) *Key {
	return &Key{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}
}

// NewKeyFromHex parses a hex private key, with or without the 0x prefix.
func NewKeyFromHex(s string) (*Key, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse hex key")
	}
	return NewKey(key), nil
}

// NewKeyFromExtended derives a key from a BIP32 extended private key (xprv).
// An empty path uses m/44'/60'/0'/0/0.
func NewKeyFromExtended(xprv, path string) (*Key, error) {
	derivation := accounts.DefaultBaseDerivationPath
	if len(path) > 0 {
		var err error
		derivation, err = accounts.ParseDerivationPath(path)
		if err != nil {
			return nil, errors.Wrap(err, "derivation path")
		}
	}

	extended, err := bip32.B58Deserialize(strings.TrimSpace(xprv))
	if err != nil {
		return nil, errors.Wrap(err, "parse extended key")
	}
	if !extended.IsPrivate {
		return nil, ErrPublicExtendedKey
	}

	for _, index := range derivation {
		extended, err = extended.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "derive child %d", index)
		}
	}

	key, err := crypto.ToECDSA(extended.Key)
	if err != nil {
		return nil, errors.Wrap(err, "derived key")
	}
	return NewKey(key), nil
}

// NewKeyFromKeystoreJSON decrypts an encrypted keystore (v3) file.
func NewKeyFromKeystoreJSON(data []byte, passphrase string) (*Key, error) {
	k, err := keystore.DecryptKey(data, passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt keystore")
	}
	return NewKey(k.PrivateKey), nil
}
