package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/Mohsinsiddi/w3deploy/internal/chain"
	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
)

// Errors.
var (
	ErrUnknownSender  = errors.New("no signer for sender address")
	ErrDeployReverted = errors.New("deployment reverted")
)

// Options describe one deployment request.
type Options struct {
	From              common.Address
	Args              []any
	Log               bool
	WaitConfirmations uint64
	GasLimit          uint64 // 0 = estimate
}

// Deployment is the outcome of Deploy.
type Deployment struct {
	Name    string
	Address common.Address
	TxHash  common.Hash
	GasUsed uint64
	Reused  bool
	Record  *contract.Record
}

// Deployer deploys artifacts to one network. It implements Deployments.
type Deployer struct {
	backend      chain.Backend
	network      *config.Network
	chainID      *big.Int
	signers      wallet.Set
	artifactsDir string

	store   *contract.Store
	out     io.Writer
	log     zerolog.Logger
	runID   string
	poll    time.Duration
	timeout time.Duration
	now     func() time.Time

	deployed map[string]*contract.Record
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithStore persists deployments and enables reuse of identical ones.
func WithStore(s *contract.Store) Option {
	return func(d *Deployer) { d.store = s }
}

// WithOutput sets where deployment log lines go.
func WithOutput(w io.Writer) Option {
	return func(d *Deployer) { d.out = w }
}

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Deployer) { d.log = l }
}

// WithRunID tags saved records with the id of the current run.
func WithRunID(id string) Option {
	return func(d *Deployer) { d.runID = id }
}

// WithPollInterval sets how often receipts and block numbers are polled.
func WithPollInterval(p time.Duration) Option {
	return func(d *Deployer) { d.poll = p }
}

// WithTimeout bounds a single Deploy call, confirmations included.
func WithTimeout(t time.Duration) Option {
	return func(d *Deployer) { d.timeout = t }
}

// NewDeployer creates a Deployer for network. The network's chain id must
// already have been verified against the backend.
func NewDeployer(b chain.Backend, network *config.Network, signers wallet.Set, artifactsDir string, opts ...Option) *Deployer {
	d := &Deployer{
		backend:      b,
		network:      network,
		chainID:      big.NewInt(network.ChainID),
		signers:      signers,
		artifactsDir: artifactsDir,
		out:          io.Discard,
		log:          zerolog.Nop(),
		poll:         config.ReceiptPollEvery,
		timeout:      config.TxDeployTimeout,
		now:          time.Now,
		deployed:     make(map[string]*contract.Record),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy deploys the artifact called name from opts.From. An identical
// earlier deployment (same bytecode and args, code still on chain) is
// reused instead of sent again.
func (d *Deployer) Deploy(ctx context.Context, name string, opts Options) (*Deployment, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	log := d.log.With().Str("contract", name).Str("network", d.network.Name).Logger()

	signer, ok := d.signers.ByAddress(opts.From)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSender, opts.From.Hex())
	}

	path, err := contract.FindArtifact(d.artifactsDir, name)
	if err != nil {
		return nil, err
	}
	art, err := contract.LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("artifact", path).Int("bytecode", len(art.Bytecode)).Msg("artifact loaded")

	args := opts.Args
	if args == nil {
		args = []any{}
	}
	data, err := art.DeployData(args)
	if err != nil {
		return nil, err
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encoding args of %s: %w", name, err)
	}

	if dep, err := d.reuse(ctx, name, art, argsJSON); err != nil {
		return nil, err
	} else if dep != nil {
		if opts.Log {
			d.Log(fmt.Sprintf("reusing %q at %s", name, dep.Address.Hex()))
		}
		return dep, nil
	}

	tx, err := d.buildTx(ctx, signer.Address(), data, opts.GasLimit)
	if err != nil {
		return nil, err
	}
	signed, err := signer.SignTx(tx, d.chainID)
	if err != nil {
		return nil, err
	}
	if err := d.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("sending deployment of %s: %w", name, err)
	}
	log.Debug().Str("tx", signed.Hash().Hex()).Uint64("nonce", signed.Nonce()).Uint64("gas", signed.Gas()).Msg("deployment sent")
	if opts.Log {
		fmt.Fprintf(d.out, "deploying %q (tx: %s)...", name, signed.Hash().Hex())
	}

	receipt, err := chain.WaitForReceipt(ctx, d.backend, signed.Hash(), d.poll)
	if err != nil {
		if opts.Log {
			fmt.Fprintln(d.out, ": failed")
		}
		if errors.Is(err, chain.ErrTxReverted) {
			return nil, fmt.Errorf("%w: %s: %w", ErrDeployReverted, name, err)
		}
		return nil, err
	}

	if d.network.Live {
		if err := chain.WaitForConfirmations(ctx, d.backend, receipt.BlockNumber.Uint64(), opts.WaitConfirmations, d.poll); err != nil {
			if opts.Log {
				fmt.Fprintln(d.out, ": unconfirmed")
			}
			return nil, err
		}
	} else if opts.WaitConfirmations > 1 {
		log.Debug().Uint64("confirmations", opts.WaitConfirmations).Msg("local network, not waiting for confirmations")
	}

	rec := &contract.Record{
		ContractName:    name,
		Address:         receipt.ContractAddress,
		ABI:             art.RawABI,
		TransactionHash: signed.Hash(),
		Receipt: &contract.ReceiptSummary{
			BlockNumber: receipt.BlockNumber.Uint64(),
			BlockHash:   receipt.BlockHash,
			GasUsed:     receipt.GasUsed,
			Status:      receipt.Status,
		},
		Args:         argsJSON,
		BytecodeHash: art.BytecodeHash(),
		Deployer:     signer.Address(),
		DeployedAt:   d.now().UTC().Format(time.RFC3339),
		RunID:        d.runID,
	}
	if err := d.save(rec); err != nil {
		return nil, err
	}

	if opts.Log {
		fmt.Fprintf(d.out, ": deployed at %s with %d gas\n", rec.Address.Hex(), receipt.GasUsed)
	}
	log.Info().Str("address", rec.Address.Hex()).Uint64("block", rec.Receipt.BlockNumber).Msg("deployed")

	return &Deployment{
		Name:    name,
		Address: rec.Address,
		TxHash:  rec.TransactionHash,
		GasUsed: receipt.GasUsed,
		Record:  rec,
	}, nil
}

// Get returns the deployment of name made in this run or saved earlier.
func (d *Deployer) Get(name string) (*contract.Record, error) {
	if r, ok := d.deployed[name]; ok {
		return r, nil
	}
	if d.store == nil {
		return nil, fmt.Errorf("%w: %s on %s", contract.ErrDeploymentNotFound, name, d.network.Name)
	}
	return d.store.Get(name)
}

// Deployed returns the records deployed or reused by this Deployer, by name.
func (d *Deployer) Deployed() []*contract.Record {
	names := make([]string, 0, len(d.deployed))
	for n := range d.deployed {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*contract.Record, 0, len(names))
	for _, n := range names {
		out = append(out, d.deployed[n])
	}
	return out
}

// Log writes one line to the deployment output.
func (d *Deployer) Log(args ...any) {
	fmt.Fprintln(d.out, args...)
}

func (d *Deployer) reuse(ctx context.Context, name string, art *contract.Artifact, argsJSON []byte) (*Deployment, error) {
	if d.store == nil {
		return nil, nil
	}
	rec, err := d.store.Get(name)
	if errors.Is(err, contract.ErrDeploymentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.BytecodeHash != art.BytecodeHash() || !sameJSON(rec.Args, argsJSON) {
		d.log.Debug().Str("contract", name).Msg("saved deployment differs, redeploying")
		return nil, nil
	}
	code, err := d.backend.CodeAt(ctx, rec.Address, nil)
	if err != nil {
		return nil, fmt.Errorf("checking code at %s: %w", rec.Address.Hex(), err)
	}
	if len(code) == 0 {
		d.log.Debug().Str("contract", name).Str("address", rec.Address.Hex()).Msg("saved deployment has no code, redeploying")
		return nil, nil
	}
	d.deployed[name] = rec
	return &Deployment{
		Name:    name,
		Address: rec.Address,
		TxHash:  rec.TransactionHash,
		Reused:  true,
		Record:  rec,
	}, nil
}

func (d *Deployer) buildTx(ctx context.Context, from common.Address, data []byte, gasLimit uint64) (*types.Transaction, error) {
	nonce, err := d.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("fetching nonce: %w", err)
	}
	gasPrice, err := d.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching gas price: %w", err)
	}
	if gasLimit == 0 {
		gasLimit, err = d.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, GasPrice: gasPrice, Data: data})
		if err != nil {
			d.log.Warn().Err(err).Uint64("fallback", config.GasLimitDeploy).Msg("gas estimation failed")
			gasLimit = config.GasLimitDeploy
		}
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		Value:    new(big.Int),
		Data:     data,
	}), nil
}

func (d *Deployer) save(rec *contract.Record) error {
	d.deployed[rec.ContractName] = rec
	if d.store == nil {
		return nil
	}
	if err := d.store.SetChainID(d.network.ChainID); err != nil {
		return err
	}
	if err := d.store.Save(rec); err != nil {
		return fmt.Errorf("saving deployment of %s: %w", rec.ContractName, err)
	}
	return nil
}

func sameJSON(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
