package nas

import (
	"encoding/binary"

	"github.com/ironledger/statecore/core/types"
)

// Encoding for pools, deposits, validator sets, and the epoch counter.
// Every value is a fixed-field, length-prefixed little-endian layout so
// that it is canonical and stable, matching the key schema's requirement
// of keys and extending the same determinism concern to values.

func encodeAddress(buf []byte, a types.Address) []byte {
	return append(buf, a[:]...)
}

func decodeAddress(b []byte) (types.Address, []byte) {
	var a types.Address
	copy(a[:], b[:32])
	return a, b[32:]
}

func encodeUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func decodeUint64(b []byte) (uint64, []byte) {
	return binary.LittleEndian.Uint64(b[:8]), b[8:]
}

func encodeUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func decodeUint32(b []byte) (uint32, []byte) {
	return binary.LittleEndian.Uint32(b[:4]), b[4:]
}

func encodeStakes(buf []byte, stakes []types.Stake) []byte {
	buf = encodeUint32(buf, uint32(len(stakes)))
	for _, s := range stakes {
		buf = encodeAddress(buf, s.Owner)
		buf = encodeUint64(buf, s.Power)
	}
	return buf
}

func decodeStakes(b []byte) ([]types.Stake, []byte) {
	n, rest := decodeUint32(b)
	stakes := make([]types.Stake, 0, n)
	for i := uint32(0); i < n; i++ {
		var owner types.Address
		owner, rest = decodeAddress(rest)
		var power uint64
		power, rest = decodeUint64(rest)
		stakes = append(stakes, types.Stake{Owner: owner, Power: power})
	}
	return stakes, rest
}

func encodePool(p *types.Pool) []byte {
	buf := make([]byte, 0, 32+1+8+4+len(p.DelegatedStakes)*40)
	buf = encodeAddress(buf, p.Operator)
	buf = append(buf, p.CommissionRate)
	buf = encodeUint64(buf, p.Power)
	buf = encodeStakes(buf, p.DelegatedStakes)
	return buf
}

func decodePool(b []byte) *types.Pool {
	p := &types.Pool{}
	p.Operator, b = decodeAddress(b)
	p.CommissionRate = b[0]
	b = b[1:]
	p.Power, b = decodeUint64(b)
	p.DelegatedStakes, _ = decodeStakes(b)
	return p
}

func encodeDeposit(d *types.Deposit) []byte {
	buf := make([]byte, 0, 32+32+8+1)
	buf = encodeAddress(buf, d.Operator)
	buf = encodeAddress(buf, d.Owner)
	buf = encodeUint64(buf, d.Balance)
	if d.AutoStakeRewards {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

func decodeDeposit(b []byte) *types.Deposit {
	d := &types.Deposit{}
	d.Operator, b = decodeAddress(b)
	d.Owner, b = decodeAddress(b)
	d.Balance, b = decodeUint64(b)
	d.AutoStakeRewards = b[0] != 0
	return d
}

func encodePoolIndex(operators []types.Address) []byte {
	buf := make([]byte, 0, 4+len(operators)*32)
	buf = encodeUint32(buf, uint32(len(operators)))
	for _, a := range operators {
		buf = encodeAddress(buf, a)
	}
	return buf
}

func decodePoolIndex(b []byte) []types.Address {
	n, rest := decodeUint32(b)
	out := make([]types.Address, 0, n)
	for i := uint32(0); i < n; i++ {
		var a types.Address
		a, rest = decodeAddress(rest)
		out = append(out, a)
	}
	return out
}

func encodeValidatorSet(vs *types.ValidatorSet) []byte {
	buf := make([]byte, 0, 128)
	buf = encodeUint32(buf, uint32(len(vs.Entries)))
	for _, e := range vs.Entries {
		buf = encodeAddress(buf, e.Operator)
		buf = encodeStakes(buf, e.Stakes)
	}
	return buf
}

func decodeValidatorSet(b []byte) *types.ValidatorSet {
	n, rest := decodeUint32(b)
	entries := make([]types.ValidatorEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		var op types.Address
		op, rest = decodeAddress(rest)
		var stakes []types.Stake
		stakes, rest = decodeStakes(rest)
		entries = append(entries, types.ValidatorEntry{Operator: op, Stakes: stakes})
	}
	return &types.ValidatorSet{Entries: entries}
}
