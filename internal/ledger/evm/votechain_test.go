package evm

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/tokenized/votechain/internal/ledger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
)

var contractAddress = common.HexToAddress("0xd50495782280CAd50584D9D37FD8d69Ea5E17b3b")

func testContext() context.Context {
	return logger.ContextWithNoLogger(context.Background())
}

// fakeCaller answers contract calls with ABI encoded canned outputs.
type fakeCaller struct {
	abi     abi.ABI
	code    []byte
	outputs map[string][]interface{}
	errs    map[string]error
	calls   []string
}

func newFakeCaller(t *testing.T, definition string) *fakeCaller {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		t.Fatalf("Failed to parse abi : %s", err)
	}

	return &fakeCaller{
		abi:     parsed,
		code:    []byte{0x60, 0x80},
		outputs: make(map[string][]interface{}),
		errs:    make(map[string]error),
	}
}

func (f *fakeCaller) CodeAt(ctx context.Context, contract common.Address,
	blockNumber *big.Int) ([]byte, error) {
	return f.code, nil
}

func (f *fakeCaller) CallContract(ctx context.Context, call ethereum.CallMsg,
	blockNumber *big.Int) ([]byte, error) {

	method, err := f.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, method.Name)

	if err, ok := f.errs[method.Name]; ok {
		return nil, err
	}
	return method.Outputs.Pack(f.outputs[method.Name]...)
}

// revertError looks like the error a node returns for a reverted call.
type revertError struct {
	data string
}

func (e revertError) Error() string          { return "execution reverted" }
func (e revertError) ErrorData() interface{} { return e.data }

func encodeRevert(t *testing.T, reason string) string {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		t.Fatalf("Failed to create type : %s", err)
	}

	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	if err != nil {
		t.Fatalf("Failed to pack reason : %s", err)
	}

	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return hexutil.Encode(append(selector, packed...))
}

func TestVoteChainReads(t *testing.T) {
	ctx := testContext()
	voter := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	caller := newFakeCaller(t, VoteChainABI)
	caller.outputs["pollCount"] = []interface{}{big.NewInt(3)}
	caller.outputs["getPollTitle"] = []interface{}{"Lunch"}
	caller.outputs["getCandidates"] = []interface{}{[]string{"Pizza", "Sushi"}}
	caller.outputs["getResults"] = []interface{}{[]*big.Int{big.NewInt(2), big.NewInt(1)}}
	caller.outputs["hasUserVoted"] = []interface{}{true}
	caller.outputs["getPollCreatedAt"] = []interface{}{big.NewInt(1700000000)}

	vc, err := newVoteChain(contractAddress, caller, nil, nil, nil)
	if err != nil {
		t.Fatalf("Failed to bind : %s", err)
	}

	count, err := vc.PollCount(ctx)
	if err != nil {
		t.Fatalf("Failed to get poll count : %s", err)
	}
	if count != 3 {
		t.Errorf("Got count %d, want %d", count, 3)
	}

	title, err := vc.PollTitle(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get title : %s", err)
	}
	if title != "Lunch" {
		t.Errorf("Got title %q, want %q", title, "Lunch")
	}

	candidates, err := vc.Candidates(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get candidates : %s", err)
	}
	if diff := cmp.Diff([]string{"Pizza", "Sushi"}, candidates); diff != "" {
		t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
	}

	votes, err := vc.Results(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get results : %s", err)
	}
	if diff := cmp.Diff([]uint64{2, 1}, votes); diff != "" {
		t.Errorf("Results mismatch (-want +got):\n%s", diff)
	}

	voted, err := vc.HasVoted(ctx, 1, voter)
	if err != nil {
		t.Fatalf("Failed to get has voted : %s", err)
	}
	if !voted {
		t.Errorf("Want has voted")
	}

	created, err := vc.CreatedAt(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get created at : %s", err)
	}
	if created != 1700000000 {
		t.Errorf("Got created %d, want %d", created, 1700000000)
	}
}

func TestVoteChainReads_outOfRange(t *testing.T) {
	ctx := testContext()
	huge := new(big.Int).Lsh(big.NewInt(1), 64)

	caller := newFakeCaller(t, VoteChainABI)
	caller.outputs["pollCount"] = []interface{}{huge}
	caller.outputs["getResults"] = []interface{}{[]*big.Int{big.NewInt(1), huge}}
	caller.outputs["getPollCreatedAt"] = []interface{}{huge}

	vc, err := newVoteChain(contractAddress, caller, nil, nil, nil)
	if err != nil {
		t.Fatalf("Failed to bind : %s", err)
	}

	if _, err := vc.PollCount(ctx); err == nil {
		t.Errorf("Want poll count error")
	}
	if _, err := vc.Results(ctx, 0); err == nil {
		t.Errorf("Want results error")
	}
	if _, err := vc.CreatedAt(ctx, 0); err == nil {
		t.Errorf("Want created at error")
	}
}

func TestVoteChainReads_revert(t *testing.T) {
	ctx := testContext()

	caller := newFakeCaller(t, VoteChainABI)
	caller.errs["getPollTitle"] = revertError{data: encodeRevert(t, "Invalid poll")}

	vc, err := newVoteChain(contractAddress, caller, nil, nil, nil)
	if err != nil {
		t.Fatalf("Failed to bind : %s", err)
	}

	_, err = vc.PollTitle(ctx, 9)
	reason, ok := ledger.RejectionReason(err)
	if !ok {
		t.Fatalf("Want rejection, got %v", err)
	}
	if reason != "Invalid poll" {
		t.Errorf("Got reason %q, want %q", reason, "Invalid poll")
	}
}

func TestCertiChainAdmin(t *testing.T) {
	ctx := testContext()
	admin := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	caller := newFakeCaller(t, CertiChainABI)
	caller.outputs["admin"] = []interface{}{admin}

	cc, err := NewCertiChain(ctx, caller, contractAddress)
	if err != nil {
		t.Fatalf("Failed to bind : %s", err)
	}

	got, err := cc.Admin(ctx)
	if err != nil {
		t.Fatalf("Failed to get admin : %s", err)
	}
	if got != admin {
		t.Errorf("Got admin %s, want %s", got.Hex(), admin.Hex())
	}
}

func TestCheckDeployed(t *testing.T) {
	ctx := testContext()

	caller := newFakeCaller(t, CertiChainABI)
	if err := CheckDeployed(ctx, caller, contractAddress); err != nil {
		t.Errorf("Deployed contract failed : %s", err)
	}

	caller.code = nil
	err := CheckDeployed(ctx, caller, contractAddress)
	if errors.Cause(err) != ledger.ErrNotDeployed {
		t.Errorf("Got %v, want %v", err, ledger.ErrNotDeployed)
	}
	if !ledger.IsConnectivity(err) {
		t.Errorf("Want connectivity error")
	}
}

type fakeReceipts struct {
	receipt *types.Receipt
}

func (f *fakeReceipts) TransactionReceipt(ctx context.Context,
	txHash common.Hash) (*types.Receipt, error) {
	return f.receipt, nil
}

func (f *fakeReceipts) CodeAt(ctx context.Context, account common.Address,
	blockNumber *big.Int) ([]byte, error) {
	return nil, nil
}

func TestPendingTxWait(t *testing.T) {
	ctx := testContext()

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &contractAddress,
		Gas:      50000,
		GasPrice: big.NewInt(1),
	})

	mined := &fakeReceipts{receipt: &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(10),
	}}
	pending := &pendingTx{tx: tx, backend: mined}
	if pending.Hash() != tx.Hash().Hex() {
		t.Errorf("Got hash %s, want %s", pending.Hash(), tx.Hash().Hex())
	}
	if err := pending.Wait(ctx); err != nil {
		t.Errorf("Failed to wait : %s", err)
	}

	reverted := &fakeReceipts{receipt: &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(10),
	}}
	pending = &pendingTx{tx: tx, backend: reverted}
	if _, ok := ledger.RejectionReason(pending.Wait(ctx)); !ok {
		t.Errorf("Want rejection for reverted transaction")
	}
}
