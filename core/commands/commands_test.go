package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/accounts"
	"github.com/ironledger/statecore/core/commands"
	"github.com/ironledger/statecore/core/contract"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/rewards"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
	"github.com/ironledger/statecore/core/variant"
	"github.com/ironledger/statecore/internal/memws"
)

func testAddress(b byte) types.Address {
	var a types.Address
	a[31] = b
	return a
}

func newState(signer types.Address) *execstate.State {
	tx := &types.Transaction{Variant: types.VariantV5, Signer: signer}
	bd := &types.BlockchainData{BlockHeight: 1, Proposer: signer}
	return execstate.New(memws.New(), 10_000_000, 256, variant.For(types.VariantV5), bd, tx)
}

func TestTransferMovesBalanceAndAllowsSelfTransfer(t *testing.T) {
	s := newState(testAddress(0x01))
	require.NoError(t, accounts.SetBalance(s.Gas, testAddress(0x01), 1000))

	out, err := commands.Transfer(s, types.Command{Kind: types.CommandTransfer, Recipient: testAddress(0x02), Amount: 100})
	require.NoError(t, err)
	require.NotNil(t, out)

	from, err := accounts.Balance(s.Gas, testAddress(0x01))
	require.NoError(t, err)
	require.Equal(t, uint64(900), from)
	to, err := accounts.Balance(s.Gas, testAddress(0x02))
	require.NoError(t, err)
	require.Equal(t, uint64(100), to)

	_, err = commands.Transfer(s, types.Command{Kind: types.CommandTransfer, Recipient: testAddress(0x01), Amount: 50})
	require.NoError(t, err)
	from, err = accounts.Balance(s.Gas, testAddress(0x01))
	require.NoError(t, err)
	require.Equal(t, uint64(900), from, "a self-transfer must be a balance no-op")
}

func TestTransferRejectsInsufficientBalance(t *testing.T) {
	s := newState(testAddress(0x01))
	_, err := commands.Transfer(s, types.Command{Kind: types.CommandTransfer, Recipient: testAddress(0x02), Amount: 1})
	require.ErrorIs(t, err, txerrors.ErrInsufficientBalance)
}

func TestPoolLifecycle(t *testing.T) {
	operator := testAddress(0x01)
	s := newState(operator)

	_, err := commands.CreatePool(s, types.Command{CommissionRate: 10})
	require.NoError(t, err)

	_, err = commands.CreatePool(s, types.Command{CommissionRate: 10})
	require.ErrorIs(t, err, txerrors.ErrPoolAlreadyExists)

	_, err = commands.SetPoolSettings(s, types.Command{CommissionRate: 10})
	require.ErrorIs(t, err, txerrors.ErrInvalidCommissionRate, "identical commission rate must be rejected as a no-op")

	_, err = commands.SetPoolSettings(s, types.Command{CommissionRate: 101})
	require.ErrorIs(t, err, txerrors.ErrInvalidCommissionRate)

	_, err = commands.SetPoolSettings(s, types.Command{CommissionRate: 20})
	require.NoError(t, err)

	pool, exists, err := s.NAS.Pool(operator)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, uint8(20), pool.CommissionRate)

	_, err = commands.DeletePool(s, types.Command{})
	require.NoError(t, err)
	_, exists, err = s.NAS.Pool(operator)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestDeletePoolNotFound(t *testing.T) {
	s := newState(testAddress(0x01))
	_, err := commands.DeletePool(s, types.Command{})
	require.ErrorIs(t, err, txerrors.ErrPoolNotFound)
}

func TestDepositAndWithdrawClampedByLock(t *testing.T) {
	operator := testAddress(0x01)
	owner := testAddress(0x02)
	s := newState(owner)
	require.NoError(t, accounts.SetBalance(s.Gas, owner, 1000))
	require.NoError(t, s.NAS.CreatePool(&types.Pool{Operator: operator, CommissionRate: 0}))

	_, err := commands.CreateDeposit(s, types.Command{Operator: operator, Amount: 500})
	require.NoError(t, err)

	bal, err := accounts.Balance(s.Gas, owner)
	require.NoError(t, err)
	require.Equal(t, uint64(500), bal)

	// Lock 300 of it via the current validator set snapshot.
	vs := &types.ValidatorSet{Entries: []types.ValidatorEntry{
		{Operator: operator, Stakes: []types.Stake{{Owner: owner, Power: 300}}},
	}}
	require.NoError(t, s.NAS.PutValidatorSet(rws.SlotCurrentValidatorSet, vs))

	out, err := commands.WithdrawDeposit(s, types.Command{Operator: operator, Amount: 500})
	require.NoError(t, err)
	require.Equal(t, uint64(200), rws.GetUint64(out.ReturnValue), "only the unlocked 200 of the 500 deposit may be withdrawn")

	deposit, exists, err := s.NAS.Deposit(operator, owner)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, uint64(300), deposit.Balance)
}

func TestWithdrawDepositNothingToWithdrawWhenFullyLocked(t *testing.T) {
	operator := testAddress(0x01)
	owner := testAddress(0x02)
	s := newState(owner)
	require.NoError(t, s.NAS.PutDeposit(&types.Deposit{Operator: operator, Owner: owner, Balance: 100}))

	vs := &types.ValidatorSet{Entries: []types.ValidatorEntry{
		{Operator: operator, Stakes: []types.Stake{{Owner: owner, Power: 100}}},
	}}
	require.NoError(t, s.NAS.PutValidatorSet(rws.SlotCurrentValidatorSet, vs))

	_, err := commands.WithdrawDeposit(s, types.Command{Operator: operator, Amount: 50})
	require.ErrorIs(t, err, txerrors.ErrNothingToWithdraw)
}

func TestStakeAndUnstakeDepositClampToBalance(t *testing.T) {
	operator := testAddress(0x01)
	owner := testAddress(0x02)
	s := newState(owner)
	require.NoError(t, s.NAS.CreatePool(&types.Pool{Operator: operator}))
	require.NoError(t, s.NAS.PutDeposit(&types.Deposit{Operator: operator, Owner: owner, Balance: 100}))

	out, err := commands.StakeDeposit(s, types.Command{Operator: operator, Amount: 1000})
	require.NoError(t, err)
	require.Equal(t, uint64(100), rws.GetUint64(out.ReturnValue), "stake increase is capped by the deposit balance")

	out, err = commands.UnstakeDeposit(s, types.Command{Operator: operator, Amount: 40})
	require.NoError(t, err)
	require.Equal(t, uint64(40), rws.GetUint64(out.ReturnValue))

	pool, _, err := s.NAS.Pool(operator)
	require.NoError(t, err)
	stake, ok := pool.StakeOf(owner)
	require.True(t, ok)
	require.Equal(t, uint64(60), stake.Power)
}

func TestDispatchRoutesTransferAndRejectsUnknownKind(t *testing.T) {
	operator := testAddress(0x01)
	s := newState(operator)
	require.NoError(t, accounts.SetBalance(s.Gas, operator, 1000))

	rt := contract.New(context.Background())
	defer rt.Close(context.Background())
	curve := rewards.Curve{BlockRewardPerPower: 1}
	proto := config.DefaultProtocol()

	out, err := commands.Dispatch(context.Background(), rt, s, proto, curve, types.Command{Kind: types.CommandTransfer, Recipient: testAddress(0x02), Amount: 1})
	require.NoError(t, err)
	require.NotNil(t, out)

	_, err = commands.Dispatch(context.Background(), rt, s, proto, curve, types.Command{Kind: types.CommandKind(0xEE)})
	require.Error(t, err)
}

func TestNextEpochRejectsNonProposerSigner(t *testing.T) {
	s := newState(testAddress(0x01))
	s.BD.Proposer = testAddress(0x02)
	_, err := commands.NextEpoch(s, rewards.Curve{BlockRewardPerPower: 1}, config.DefaultProtocol())
	require.ErrorIs(t, err, txerrors.ErrUnauthorized)
}

func TestNextEpochRotatesValidatorSetsAndAdvancesEpoch(t *testing.T) {
	proposer := testAddress(0x01)
	s := newState(proposer)
	s.BD.Proposer = proposer
	s.BD.BlocksPerEpoch = 10

	operator := testAddress(0x02)
	require.NoError(t, s.NAS.CreatePool(&types.Pool{Operator: operator, CommissionRate: 10}))

	next := &types.ValidatorSet{Entries: []types.ValidatorEntry{{Operator: operator}}}
	require.NoError(t, s.NAS.PutValidatorSet(rws.SlotNextValidatorSet, next))

	epochBefore, err := s.NAS.Epoch()
	require.NoError(t, err)

	_, err = commands.NextEpoch(s, rewards.Curve{BlockRewardPerPower: 1}, config.DefaultProtocol())
	require.NoError(t, err)

	epochAfter, err := s.NAS.Epoch()
	require.NoError(t, err)
	require.Equal(t, epochBefore+1, epochAfter)

	current, err := s.NAS.ValidatorSet(rws.SlotCurrentValidatorSet)
	require.NoError(t, err)
	require.Len(t, current.Entries, 1)
	require.Equal(t, operator, current.Entries[0].Operator)

	newNext, err := s.NAS.ValidatorSet(rws.SlotNextValidatorSet)
	require.NoError(t, err)
	require.Len(t, newNext.Entries, 1, "select_top_k must repopulate next_validator_set from registered pools")
}
