package execution_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/accounts"
	"github.com/ironledger/statecore/core/contract"
	"github.com/ironledger/statecore/core/execution"
	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/nas"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
	"github.com/ironledger/statecore/internal/memws"
)

func testAddress(b byte) types.Address {
	var a types.Address
	a[31] = b
	return a
}

func newBlockData() *types.BlockchainData {
	return &types.BlockchainData{
		BlockHeight: 1,
		Proposer:    testAddress(0xAA),
		Treasury:    testAddress(0xFF),
		Timestamp:   1000,
	}
}

func seedBalance(t *testing.T, store *memws.Store, addr types.Address, balance uint64) {
	t.Helper()
	rw := rws.New(store)
	meter := gas.NewMeter(rw, 0)
	require.NoError(t, accounts.SetBalance(meter, addr, balance))
	require.NoError(t, rw.CommitInto(store))
}

func TestTransitionTransferSucceedsAndConservesGas(t *testing.T) {
	store := memws.New()
	signer := testAddress(0x01)
	recipient := testAddress(0x02)
	seedBalance(t, store, signer, 1_000_000)

	tx := &types.Transaction{
		Variant:           types.VariantV5,
		Signer:            signer,
		Nonce:             0,
		GasLimit:          100_000,
		BaseFeePerGas:     1,
		PriorityFeePerGas: 1,
		Commands: []types.Command{
			{Kind: types.CommandTransfer, Recipient: recipient, Amount: 500},
		},
		SizeBytes: 64,
	}

	rt := contract.New(context.Background())
	defer rt.Close(context.Background())

	result := execution.Transition(context.Background(), store, rt, tx, newBlockData(), config.DefaultProtocol(), nil)
	require.NoError(t, result.Err)
	require.NotNil(t, result.Receipt)
	require.Equal(t, types.ExitSuccess, result.Receipt.ExitStatusOverall)
	require.Len(t, result.Receipt.CommandReceipts, 1)

	require.NoError(t, store.ApplyWriteSet(result.NewWriteSet))

	meter := gas.NewMeter(rws.New(store), 0)
	recipientBalance, err := accounts.Balance(meter, recipient)
	require.NoError(t, err)
	require.Equal(t, uint64(500), recipientBalance)

	nonce, err := accounts.Nonce(meter, signer)
	require.NoError(t, err)
	require.Equal(t, uint64(1), nonce)

	signerBalance, err := accounts.Balance(meter, signer)
	require.NoError(t, err)
	// Signer paid the transfer amount plus net gas (gas_limit charged up
	// front, unused portion refunded in Charge) -- balance must never
	// exceed the original minus the amount transferred.
	require.LessOrEqual(t, signerBalance, uint64(1_000_000-500))

	proposerBalance, err := accounts.Balance(meter, newBlockData().Proposer)
	require.NoError(t, err)
	require.Greater(t, proposerBalance, uint64(0))
}

func TestTransitionRejectsBadNonce(t *testing.T) {
	store := memws.New()
	signer := testAddress(0x01)
	seedBalance(t, store, signer, 1_000_000)

	tx := &types.Transaction{
		Variant:  types.VariantV5,
		Signer:   signer,
		Nonce:    7,
		GasLimit: 100_000,
		Commands: []types.Command{
			{Kind: types.CommandTransfer, Recipient: testAddress(0x02), Amount: 1},
		},
	}

	rt := contract.New(context.Background())
	defer rt.Close(context.Background())

	result := execution.Transition(context.Background(), store, rt, tx, newBlockData(), config.DefaultProtocol(), nil)
	require.ErrorIs(t, result.Err, txerrors.ErrInvalidNonce)
	require.Nil(t, result.Receipt)
}

func TestTransitionRejectsMixedNextEpoch(t *testing.T) {
	store := memws.New()
	signer := testAddress(0x01)
	seedBalance(t, store, signer, 1_000_000)

	tx := &types.Transaction{
		Variant:  types.VariantV5,
		Signer:   signer,
		GasLimit: 100_000,
		Commands: []types.Command{
			{Kind: types.CommandTransfer, Recipient: testAddress(0x02), Amount: 1},
			{Kind: types.CommandNextEpoch},
		},
	}

	rt := contract.New(context.Background())
	defer rt.Close(context.Background())

	result := execution.Transition(context.Background(), store, rt, tx, newBlockData(), config.DefaultProtocol(), nil)
	require.ErrorIs(t, result.Err, txerrors.ErrDisallowedCommandMix)
}

func TestTransitionCommandFailureAbortsWithReceipt(t *testing.T) {
	store := memws.New()
	signer := testAddress(0x01)
	seedBalance(t, store, signer, 100)

	tx := &types.Transaction{
		Variant:  types.VariantV5,
		Signer:   signer,
		GasLimit: 100_000,
		Commands: []types.Command{
			{Kind: types.CommandTransfer, Recipient: testAddress(0x02), Amount: 10_000},
		},
	}

	rt := contract.New(context.Background())
	defer rt.Close(context.Background())

	result := execution.Transition(context.Background(), store, rt, tx, newBlockData(), config.DefaultProtocol(), nil)
	require.NoError(t, result.Err)
	require.NotNil(t, result.Receipt)
	require.Equal(t, types.ExitFailed, result.Receipt.ExitStatusOverall)
}

// TestTransitionOutOfGasMidTransactionAbortsWithPartialCommit runs a
// two-command transaction whose gas_limit clears the fixed inclusion cost
// but is exhausted partway through the second Transfer: the first command's
// balance effects must survive in the committed write set even though the
// transaction as a whole aborts.
func TestTransitionOutOfGasMidTransactionAbortsWithPartialCommit(t *testing.T) {
	store := memws.New()
	signer := testAddress(0x01)
	recipient1 := testAddress(0x02)
	recipient2 := testAddress(0x03)
	seedBalance(t, store, signer, 1_000_000)

	tx := &types.Transaction{
		Variant:  types.VariantV5,
		Signer:   signer,
		GasLimit: 70_000,
		Commands: []types.Command{
			{Kind: types.CommandTransfer, Recipient: recipient1, Amount: 10},
			{Kind: types.CommandTransfer, Recipient: recipient2, Amount: 10},
		},
	}

	rt := contract.New(context.Background())
	defer rt.Close(context.Background())

	result := execution.Transition(context.Background(), store, rt, tx, newBlockData(), config.DefaultProtocol(), nil)
	require.NoError(t, result.Err, "mid-transaction exhaustion is an Abort, not a Reject")
	require.NotNil(t, result.Receipt)
	require.Equal(t, types.ExitFailed, result.Receipt.ExitStatusOverall)
	require.Len(t, result.Receipt.CommandReceipts, 2)
	require.Equal(t, types.ExitSuccess, result.Receipt.CommandReceipts[0].ExitStatus)
	require.Equal(t, types.ExitFailed, result.Receipt.CommandReceipts[1].ExitStatus)

	require.NoError(t, store.ApplyWriteSet(result.NewWriteSet))
	meter := gas.NewMeter(rws.New(store), 0)
	bal1, err := accounts.Balance(meter, recipient1)
	require.NoError(t, err)
	require.Equal(t, uint64(10), bal1, "the first command's transfer must survive the later command's OutOfGas abort")
}

// TestTransitionWithdrawDepositClampedByLock runs a WithdrawDeposit command
// through the full PreCharge/Work/Charge pipeline against a deposit that is
// partially locked by the current validator set.
func TestTransitionWithdrawDepositClampedByLock(t *testing.T) {
	store := memws.New()
	operator := testAddress(0x01)
	owner := testAddress(0x02)

	rw := rws.New(store)
	seedMeter := gas.NewMeter(rw, 0)
	seedNAS := nas.New(seedMeter, 256)
	require.NoError(t, seedNAS.CreatePool(&types.Pool{Operator: operator, CommissionRate: 0}))
	require.NoError(t, seedNAS.PutDeposit(&types.Deposit{Operator: operator, Owner: owner, Balance: 500}))
	require.NoError(t, seedNAS.PutValidatorSet(rws.SlotCurrentValidatorSet, &types.ValidatorSet{
		Entries: []types.ValidatorEntry{
			{Operator: operator, Stakes: []types.Stake{{Owner: owner, Power: 300}}},
		},
	}))
	require.NoError(t, accounts.SetBalance(seedMeter, owner, 1_000))
	require.NoError(t, rw.CommitInto(store))

	tx := &types.Transaction{
		Variant:  types.VariantV5,
		Signer:   owner,
		GasLimit: 1_000_000,
		Commands: []types.Command{
			{Kind: types.CommandWithdrawDeposit, Operator: operator, Amount: 500},
		},
	}

	rt := contract.New(context.Background())
	defer rt.Close(context.Background())

	result := execution.Transition(context.Background(), store, rt, tx, newBlockData(), config.DefaultProtocol(), nil)
	require.NoError(t, result.Err)
	require.NotNil(t, result.Receipt)
	require.Equal(t, types.ExitSuccess, result.Receipt.ExitStatusOverall)
	require.Len(t, result.Receipt.CommandReceipts, 1)
	require.Equal(t, uint64(200), rws.GetUint64(result.Receipt.CommandReceipts[0].ReturnValue),
		"only the unlocked 200 of the 500 deposit may be withdrawn")

	require.NoError(t, store.ApplyWriteSet(result.NewWriteSet))
	verifyMeter := gas.NewMeter(rws.New(store), 0)
	deposit, exists, err := nas.New(verifyMeter, 256).Deposit(operator, owner)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, uint64(300), deposit.Balance)
}

// TestTransitionNextEpochRotatesValidatorSets runs the single-command
// NextEpoch shape through Transition's dedicated bypass path, confirming the
// epoch counter and validator-set slots rotate under the full driver.
func TestTransitionNextEpochRotatesValidatorSets(t *testing.T) {
	store := memws.New()
	proposer := testAddress(0x01)
	operator := testAddress(0x02)

	rw := rws.New(store)
	seedMeter := gas.NewMeter(rw, 0)
	seedNAS := nas.New(seedMeter, 256)
	require.NoError(t, seedNAS.CreatePool(&types.Pool{Operator: operator, CommissionRate: 10}))
	require.NoError(t, seedNAS.PutValidatorSet(rws.SlotNextValidatorSet, &types.ValidatorSet{
		Entries: []types.ValidatorEntry{{Operator: operator}},
	}))
	require.NoError(t, rw.CommitInto(store))

	bd := &types.BlockchainData{
		BlockHeight:    10,
		Proposer:       proposer,
		Treasury:       testAddress(0xFF),
		BlocksPerEpoch: 10,
	}
	tx := &types.Transaction{
		Variant:  types.VariantV5,
		Signer:   proposer,
		GasLimit: 0,
		Commands: []types.Command{{Kind: types.CommandNextEpoch}},
	}

	rt := contract.New(context.Background())
	defer rt.Close(context.Background())

	result := execution.Transition(context.Background(), store, rt, tx, bd, config.DefaultProtocol(), nil)
	require.NoError(t, result.Err)
	require.NotNil(t, result.Receipt)
	require.Equal(t, types.ExitSuccess, result.Receipt.ExitStatusOverall)
	require.Equal(t, uint64(0), result.Receipt.GasUsed, "NextEpoch always carries a zero-gas receipt")

	require.NoError(t, store.ApplyWriteSet(result.NewWriteSet))
	verifyMeter := gas.NewMeter(rws.New(store), 0)
	verifyNAS := nas.New(verifyMeter, 256)

	epoch, err := verifyNAS.Epoch()
	require.NoError(t, err)
	require.Equal(t, uint64(1), epoch)

	current, err := verifyNAS.ValidatorSet(rws.SlotCurrentValidatorSet)
	require.NoError(t, err)
	require.Len(t, current.Entries, 1)
	require.Equal(t, operator, current.Entries[0].Operator)

	nonce, err := accounts.Nonce(verifyMeter, proposer)
	require.NoError(t, err)
	require.Equal(t, uint64(1), nonce, "NextEpoch still advances the signer's nonce")
}
