package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/tokenized/votechain/internal/identity"
	"github.com/tokenized/votechain/internal/ledger"
	"github.com/tokenized/votechain/internal/ledger/evm"
	"github.com/tokenized/votechain/internal/platform/config"
	"github.com/tokenized/votechain/internal/poll"
	"github.com/tokenized/votechain/internal/report"
	"github.com/tokenized/votechain/internal/voting"
	"github.com/tokenized/votechain/pkg/scheduler"
	"github.com/tokenized/votechain/pkg/storage"
	"github.com/tokenized/votechain/pkg/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
	"golang.org/x/term"
)

const (
	BackendEVM    = "evm"
	BackendMemory = "memory"
)

// App is the wired set of components used by the commands.
type App struct {
	Config   *config.Config
	Wallet   *wallet.Wallet
	Ledger   ledger.Ledger
	Identity *identity.Provider
	Service  *voting.Service

	close func()
}

// Close releases the node connection.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

func NewContextWithDevelopmentLogger() context.Context {
	logConfig := logger.NewDevelopmentConfig()

	if logPath := os.Getenv("LOG_FILE_PATH"); len(logPath) > 0 {
		logConfig.Main.AddFile(logPath)
	}

	logConfig.EnableSubSystem(ledger.SubSystem)
	logConfig.EnableSubSystem(evm.SubSystem)
	logConfig.EnableSubSystem(poll.SubSystem)
	logConfig.EnableSubSystem(identity.SubSystem)
	logConfig.EnableSubSystem(voting.SubSystem)
	logConfig.EnableSubSystem(report.SubSystem)
	logConfig.EnableSubSystem(scheduler.SubSystem)

	ctx := logger.ContextWithLogConfig(context.Background(), logConfig)

	uid, _ := uuid.NewRandom()
	return logger.ContextWithLogTrace(ctx, uid.String())
}

func NewConfigFromEnv(ctx context.Context) *config.Config {
	cfg, err := config.Environment()
	if err != nil {
		logger.Fatal(ctx, "Parsing Config : %s", err)
	}

	// Mask sensitive values
	cfgSafe := config.SafeConfig(*cfg)
	cfgJSON, err := json.MarshalIndent(cfgSafe, "", "    ")
	if err != nil {
		logger.Fatal(ctx, "Marshalling Config to JSON : %s", err)
	}
	logger.Verbose(ctx, "Config : %v", string(cfgJSON))

	return cfg
}

// NewWallet loads every key configured. Without a key no account can connect,
// so polls can't be read or submitted.
func NewWallet(ctx context.Context, cfg *config.Config) (*wallet.Wallet, error) {
	w := wallet.New()

	if len(cfg.Wallet.PrivateKey) > 0 {
		if _, err := w.Register(cfg.Wallet.PrivateKey); err != nil {
			return nil, errors.Wrap(err, "private key")
		}
	}

	if len(cfg.Wallet.ExtendedKey) > 0 {
		key, err := wallet.NewKeyFromExtended(cfg.Wallet.ExtendedKey, cfg.Wallet.DerivationPath)
		if err != nil {
			return nil, errors.Wrap(err, "extended key")
		}
		if err := w.Add(key); err != nil {
			return nil, errors.Wrap(err, "add extended key")
		}
	}

	if len(cfg.Wallet.KeystoreFile) > 0 {
		key, err := loadKeystore(cfg.Wallet.KeystoreFile, cfg.Wallet.Passphrase)
		if err != nil {
			return nil, errors.Wrap(err, "keystore")
		}
		if err := w.Add(key); err != nil {
			return nil, errors.Wrap(err, "add keystore key")
		}
	}

	if len(w.Addresses()) == 0 {
		logger.Warn(ctx, "No wallet keys configured. Connect an account to read or submit.")
	}

	return w, nil
}

func loadKeystore(path, passphrase string) (*wallet.Key, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	if len(passphrase) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Passphrase for %s: ", path)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, errors.Wrap(err, "read passphrase")
		}
		passphrase = string(b)
	}

	return wallet.NewKeyFromKeystoreJSON(data, passphrase)
}

// NewApp connects the ledger backend and the first wallet account.
func NewApp(ctx context.Context, cfg *config.Config, w *wallet.Wallet) (*App, error) {
	app := &App{
		Config: cfg,
		Wallet: w,
	}

	switch strings.ToLower(cfg.Ledger.Backend) {
	case BackendMemory:
		admin := common.Address{}
		if addresses := w.Addresses(); len(addresses) > 0 {
			admin = addresses[0]
		}
		m := ledger.NewMemory(admin)
		app.Ledger = m
		app.Identity = identity.NewProvider(w, m)
		logger.Info(ctx, "Using memory ledger")

	case BackendEVM:
		if err := newEVMLedger(ctx, app); err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("Unknown ledger backend : %s", cfg.Ledger.Backend)
	}

	if err := app.Identity.ConnectDefault(ctx); err != nil && !ledger.IsConnectivity(err) {
		app.Close()
		return nil, errors.Wrap(err, "connect wallet")
	}

	if m, ok := app.Ledger.(*ledger.Memory); ok {
		m.SetSender(app.Identity.State().Address)
	}

	app.Service = voting.NewService(app.Ledger, app.Identity)
	return app, nil
}

func newEVMLedger(ctx context.Context, app *App) error {
	cfg := app.Config

	client, err := evm.Dial(ctx, evm.Config{
		RPCURL:  cfg.Ethereum.RPCURL,
		ChainID: cfg.Ethereum.ChainID,
	})
	if err != nil {
		return errors.Wrap(err, "dial node")
	}
	app.close = client.Close

	voteChainAddress, err := parseAddress(cfg.Ethereum.VoteChainAddress)
	if err != nil {
		client.Close()
		return errors.Wrap(err, "vote chain address")
	}

	var admin ledger.AdminReader
	if len(cfg.Ethereum.CertiChainAddress) > 0 {
		certiChainAddress, err := parseAddress(cfg.Ethereum.CertiChainAddress)
		if err != nil {
			client.Close()
			return errors.Wrap(err, "certi chain address")
		}

		certiChain, err := evm.NewCertiChain(ctx, client, certiChainAddress)
		if err != nil {
			logger.Warn(ctx, "Admin lookup unavailable : %s", err)
		} else {
			admin = certiChain
		}
	}

	app.Identity = identity.NewProvider(app.Wallet, admin)

	var confirmer evm.Confirmer = evm.AutoConfirm{}
	if !cfg.Wallet.AutoConfirm {
		confirmer = evm.TerminalConfirmer()
	}

	signer := evm.NewSigner(app.Identity, client.Chain(), confirmer)

	voteChain, err := evm.NewVoteChain(ctx, client, voteChainAddress, signer)
	if err != nil {
		client.Close()
		return errors.Wrap(err, "vote chain")
	}
	app.Ledger = voteChain

	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Errorf("Invalid address : %s", s)
	}
	return common.HexToAddress(s), nil
}

func NewStorage(cfg *config.Config) storage.Storage {
	storageConfig := storage.NewConfig(cfg.AWS.Region,
		cfg.AWS.AccessKeyID,
		cfg.AWS.SecretAccessKey,
		cfg.Storage.Bucket,
		cfg.Storage.Root)
	if cfg.AWS.MaxRetries > 0 {
		storageConfig.MaxRetries = cfg.AWS.MaxRetries
	}

	return storage.New(storageConfig)
}
