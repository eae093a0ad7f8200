// Package variant holds the V4/V5 strategy dispatch tables. The transition is
// parameterized by a Variant at entry; there is no dynamic swap
// mid-transition.
package variant

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ironledger/statecore/core/gas"
	"github.com/ironledger/statecore/core/types"
)

// Strategy bundles the four behaviors that differ between variants.
type Strategy struct {
	Tag types.Variant
}

// V4 derives the address as H(signer‖nonce); V5 mixes in the zero-based
// command index so that multiple Deploy commands in one transaction never
// collide.
func (s Strategy) ContractAddress(signer types.Address, nonce uint64, commandIndex int) types.Address {
	h := sha256.New()
	h.Write(signer[:])
	var nonceBuf [8]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], nonce)
	h.Write(nonceBuf[:])
	if s.Tag == types.VariantV5 {
		var idxBuf [8]byte
		binary.LittleEndian.PutUint64(idxBuf[:], uint64(commandIndex))
		h.Write(idxBuf[:])
	}
	return types.BytesToAddress(h.Sum(nil))
}

// InclusionCost returns the fixed inclusion-cost formula for this variant.
// V5 supersedes V4 with a larger minimum-receipt-size baseline to account
// for its richer per-command receipt shape.
func (s Strategy) InclusionCost(nCommands int) gas.InclusionCost {
	if s.Tag == types.VariantV5 {
		return gas.InclusionCost{
			BaseTxCost:     gas.MinReceiptSizeV2 * gas.BlockchainWritePerByteCost,
			PerCommandCost: gas.MinCommandReceiptSizeV2Basic * gas.BlockchainWritePerByteCost,
			PerByteCost:    gas.BlockchainWritePerByteCost,
		}
	}
	return gas.InclusionCost{
		BaseTxCost:     gas.MinReceiptSizeV1 * gas.BlockchainWritePerByteCost,
		PerCommandCost: gas.MinCommandReceiptSizeV1 * gas.BlockchainWritePerByteCost,
		PerByteCost:    gas.BlockchainWritePerByteCost,
	}
}

// AppKeyLength returns the key length billed for an App (contract
// storage) key of the given raw sub-key length. V4 double-charges the
// 32-byte address prefix that is already implied by the account trie
// position; V5 fixes this by billing only the sub-key length plus the
// fixed account-trie key length once.
func (s Strategy) AppKeyLength(subKeyLen int) int {
	if s.Tag == types.VariantV5 {
		return int(gas.AccountTrieKeyLength) + subKeyLen
	}
	return int(gas.AccountTrieKeyLength) + 32 + subKeyLen
}

// ReceiptShape reports whether this variant's receipts carry the extended
// V5 fields (transaction-inclusion gas broken out, per-variant command
// receipt extensions) alongside the common exit-status/gas/return/logs
// fields every variant shares.
func (s Strategy) ReceiptShape() ReceiptShape {
	if s.Tag == types.VariantV5 {
		return ReceiptShape{ExtendedFields: true}
	}
	return ReceiptShape{ExtendedFields: false}
}

// ReceiptShape describes which optional receipt fields a variant includes.
type ReceiptShape struct {
	ExtendedFields bool
}

// For builds the Strategy for a given transaction variant tag.
func For(tag types.Variant) Strategy {
	return Strategy{Tag: tag}
}
