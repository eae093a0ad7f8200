// Package rws implements the read-write cache layered over a world-state
// view plus the canonical, bit-exact key schema
// shared by every typed overlay (core/accounts, core/nas).
package rws

import (
	"encoding/binary"

	"github.com/ironledger/statecore/core/types"
)

// Domain tags. Every world-state key starts with exactly one of these,
// followed by the address(es) and sub-key the tag requires. Tags are
// stable across protocol versions; only the key *length* formula used for
// gas accounting differs between variants (see core/variant).
const (
	TagAccountBalance byte = 0x01
	TagAccountNonce   byte = 0x02
	TagContractCode   byte = 0x03
	TagCBIVersion     byte = 0x04
	TagAppStorage     byte = 0x05
	TagPool           byte = 0x10
	TagDeposit        byte = 0x11
	TagValidatorSet   byte = 0x12
	TagEpoch          byte = 0x13
	// TagPoolIndex addresses the sorted list of operator addresses that
	// currently have a pool. The WorldStateView interface exposes
	// only get/contains, not iteration, so NextEpoch's select_top_k needs
	// this secondary index to enumerate "all pools" — the same way the
	// teacher codebase keeps a username index alongside account state.
	TagPoolIndex byte = 0x14
)

// ValidatorSetSlot identifies which of the three validator-set snapshots a
// TagValidatorSet key addresses.
type ValidatorSetSlot byte

const (
	SlotPrevValidatorSet    ValidatorSetSlot = 0
	SlotCurrentValidatorSet ValidatorSetSlot = 1
	SlotNextValidatorSet    ValidatorSetSlot = 2
)

// Key builds a canonical, little-endian-encoded, fixed-width world-state
// key. Every helper below returns a freshly-allocated slice safe to retain.

func AccountBalanceKey(addr types.Address) []byte {
	return append([]byte{TagAccountBalance}, addr[:]...)
}

func AccountNonceKey(addr types.Address) []byte {
	return append([]byte{TagAccountNonce}, addr[:]...)
}

func ContractCodeKey(addr types.Address) []byte {
	return append([]byte{TagContractCode}, addr[:]...)
}

func CBIVersionKey(addr types.Address) []byte {
	return append([]byte{TagCBIVersion}, addr[:]...)
}

// AppStorageKey addresses a single app_data entry of a contract account.
// subKey is the contract-defined storage key, stored verbatim after the
// domain tag and account address.
func AppStorageKey(addr types.Address, subKey []byte) []byte {
	buf := make([]byte, 0, 1+len(addr)+len(subKey))
	buf = append(buf, TagAppStorage)
	buf = append(buf, addr[:]...)
	buf = append(buf, subKey...)
	return buf
}

func PoolKey(operator types.Address) []byte {
	return append([]byte{TagPool}, operator[:]...)
}

func DepositKey(operator, owner types.Address) []byte {
	buf := make([]byte, 0, 1+len(operator)+len(owner))
	buf = append(buf, TagDeposit)
	buf = append(buf, operator[:]...)
	buf = append(buf, owner[:]...)
	return buf
}

func ValidatorSetKey(slot ValidatorSetSlot) []byte {
	return []byte{TagValidatorSet, byte(slot)}
}

func EpochKey() []byte {
	return []byte{TagEpoch}
}

func PoolIndexKey() []byte {
	return []byte{TagPoolIndex}
}

// PutUint64 / GetUint64 are the canonical little-endian integer codecs used
// by every fixed-width value stored through the keys above.
func PutUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

func GetUint64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func PutUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

func GetUint32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}
