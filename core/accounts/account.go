// Package accounts provides typed, individually-billed accessors over an
// account's fields. Unlike a monolithic struct, each field
// lives at its own world-state key so that reads and writes are billed
// independently by the gas meter, exactly as the reference runtime's
// per-field CacheKey variants do.
package accounts

import (
	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
	"github.com/ironledger/statecore/core/variant"
)

// Balance returns the account's balance, or 0 if the account has never
// been written.
func Balance(m *gas.Meter, addr types.Address) (uint64, error) {
	value, _, err := m.WSGet(rws.AccountBalanceKey(addr), false)
	return rws.GetUint64(value), err
}

// SetBalance overwrites the account's balance.
func SetBalance(m *gas.Meter, addr types.Address, balance uint64) error {
	return m.WSSet(rws.AccountBalanceKey(addr), rws.PutUint64(balance))
}

// Nonce returns the account's nonce, or 0 if never written.
func Nonce(m *gas.Meter, addr types.Address) (uint64, error) {
	value, _, err := m.WSGet(rws.AccountNonceKey(addr), false)
	return rws.GetUint64(value), err
}

// SetNonce overwrites the account's nonce.
func SetNonce(m *gas.Meter, addr types.Address, nonce uint64) error {
	return m.WSSet(rws.AccountNonceKey(addr), rws.PutUint64(nonce))
}

// HasContract reports whether the account already holds deployed contract
// code, used by Deploy's address-collision check.
func HasContract(m *gas.Meter, addr types.Address) (bool, error) {
	return m.WSContains(rws.ContractCodeKey(addr))
}

// ContractCode returns the account's deployed contract bytes, discounted
// per the contract-code read cost.
func ContractCode(m *gas.Meter, addr types.Address) ([]byte, bool, error) {
	return m.WSGet(rws.ContractCodeKey(addr), true)
}

// SetContractCode deploys contract bytes to the account.
func SetContractCode(m *gas.Meter, addr types.Address, code []byte) error {
	return m.WSSet(rws.ContractCodeKey(addr), code)
}

// CBIVersion returns the account's CBI version, and whether it is set at
// all (a non-contract account has none).
func CBIVersion(m *gas.Meter, addr types.Address) (uint32, bool, error) {
	value, present, err := m.WSGet(rws.CBIVersionKey(addr), false)
	return rws.GetUint32(value), present, err
}

// SetCBIVersion records the CBI version a deployed contract was compiled
// against.
func SetCBIVersion(m *gas.Meter, addr types.Address, version uint32) error {
	return m.WSSet(rws.CBIVersionKey(addr), rws.PutUint32(version))
}

// AppData reads one contract-storage sub-key. The traversal cost is
// billed against strat.AppKeyLength(len(subKey)) rather than the real
// encoded key's length, since V4 and V5 charge different key-length
// formulas for the same underlying App entry.
func AppData(m *gas.Meter, strat variant.Strategy, addr types.Address, subKey []byte) ([]byte, bool, error) {
	return m.WSGetKeyed(rws.AppStorageKey(addr, subKey), strat.AppKeyLength(len(subKey)), false)
}

// SetAppData writes one contract-storage sub-key, billed per strat.AppKeyLength.
func SetAppData(m *gas.Meter, strat variant.Strategy, addr types.Address, subKey, value []byte) error {
	return m.WSSetKeyed(rws.AppStorageKey(addr, subKey), strat.AppKeyLength(len(subKey)), value)
}

// DeleteAppData deletes one contract-storage sub-key, billed per
// strat.AppKeyLength.
func DeleteAppData(m *gas.Meter, strat variant.Strategy, addr types.Address, subKey []byte) error {
	return m.WSDeleteKeyed(rws.AppStorageKey(addr, subKey), strat.AppKeyLength(len(subKey)))
}

// CreditBalance performs a checked addition, returning an error if it
// would overflow.
func CreditBalance(m *gas.Meter, addr types.Address, amount uint64) error {
	bal, err := Balance(m, addr)
	if err != nil {
		return err
	}
	newBal := bal + amount
	if newBal < bal {
		return txerrors.ErrBalanceOverflow
	}
	return SetBalance(m, addr, newBal)
}

// DebitBalance performs a checked subtraction, returning an error if the
// balance would go negative.
func DebitBalance(m *gas.Meter, addr types.Address, amount uint64) error {
	bal, err := Balance(m, addr)
	if err != nil {
		return err
	}
	if bal < amount {
		return txerrors.ErrInsufficientBalance
	}
	return SetBalance(m, addr, bal-amount)
}
