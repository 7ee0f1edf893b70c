package config

import (
	"github.com/kelseyhightower/envconfig"
)

const masked = "*** Masked ***"

// Config is used to hold all runtime configuration.
type Config struct {
	Ledger struct {
		Backend string `default:"evm" envconfig:"LEDGER_BACKEND" json:"LEDGER_BACKEND"` // evm or memory
	}
	Ethereum struct {
		RPCURL            string `default:"http://127.0.0.1:8545" envconfig:"RPC_URL" json:"RPC_URL"`
		ChainID           uint64 `envconfig:"CHAIN_ID" json:"CHAIN_ID"`
		VoteChainAddress  string `default:"0xd50495782280CAd50584D9D37FD8d69Ea5E17b3b" envconfig:"VOTE_CHAIN_ADDRESS" json:"VOTE_CHAIN_ADDRESS"`
		CertiChainAddress string `default:"0x731Ab3383B0B3Ed4cf6910B6F8e9F52003eF1c0a" envconfig:"CERTI_CHAIN_ADDRESS" json:"CERTI_CHAIN_ADDRESS"`
		TxTimeout         uint64 `default:"0" envconfig:"TX_TIMEOUT" json:"TX_TIMEOUT"` // Seconds, 0 waits until cancelled
	}
	Wallet struct {
		PrivateKey     string `envconfig:"PRIV_KEY" json:"PRIV_KEY"`
		ExtendedKey    string `envconfig:"XKEY" json:"XKEY"`
		DerivationPath string `envconfig:"DERIVATION_PATH" json:"DERIVATION_PATH"`
		KeystoreFile   string `envconfig:"KEYSTORE_FILE" json:"KEYSTORE_FILE"`
		Passphrase     string `envconfig:"KEYSTORE_PASSPHRASE" json:"KEYSTORE_PASSPHRASE"`
		AutoConfirm    bool   `default:"false" envconfig:"AUTO_CONFIRM" json:"AUTO_CONFIRM"`
	}
	Storage struct {
		Bucket string `default:"standalone" envconfig:"STORAGE_BUCKET" json:"STORAGE_BUCKET"`
		Root   string `default:"./tmp" envconfig:"STORAGE_ROOT" json:"STORAGE_ROOT"`
	}
	AWS struct {
		Region          string `default:"ap-southeast-2" envconfig:"AWS_REGION" json:"AWS_REGION"`
		AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" json:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" json:"AWS_SECRET_ACCESS_KEY"`
		MaxRetries      int    `default:"4" envconfig:"AWS_MAX_RETRIES" json:"AWS_MAX_RETRIES"`
	}
	Watch struct {
		Interval uint64 `default:"15" envconfig:"WATCH_INTERVAL" json:"WATCH_INTERVAL"` // Seconds
	}
}

// SafeConfig masks sensitive config values
func SafeConfig(cfg Config) *Config {
	cfgSafe := cfg

	if len(cfgSafe.Wallet.PrivateKey) > 0 {
		cfgSafe.Wallet.PrivateKey = masked
	}
	if len(cfgSafe.Wallet.ExtendedKey) > 0 {
		cfgSafe.Wallet.ExtendedKey = masked
	}
	if len(cfgSafe.Wallet.Passphrase) > 0 {
		cfgSafe.Wallet.Passphrase = masked
	}
	if len(cfgSafe.AWS.AccessKeyID) > 0 {
		cfgSafe.AWS.AccessKeyID = masked
	}
	if len(cfgSafe.AWS.SecretAccessKey) > 0 {
		cfgSafe.AWS.SecretAccessKey = masked
	}

	return &cfgSafe
}

// Environment returns configuration sourced from environment variables
func Environment() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("VOTECHAIN", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
