package types

import "bytes"

// ValidatorEntry is one operator's snapshot within a ValidatorSet: the
// locked stake powers of its delegators at the moment the set was taken.
type ValidatorEntry struct {
	Operator Address
	Stakes   []Stake // sorted by owner address ascending, see SortEntries
}

// LockedPowerOf returns the locked power the set records for owner under
// this operator, or 0 if absent.
func (e *ValidatorEntry) LockedPowerOf(owner Address) uint64 {
	if e == nil {
		return 0
	}
	for _, s := range e.Stakes {
		if s.Owner == owner {
			return s.Power
		}
	}
	return 0
}

// ValidatorSet is one of the three rotating snapshots (prev/current/next),
// a map operator→{stakes} represented as an address-sorted slice so that
// iteration is deterministic.
type ValidatorSet struct {
	Entries []ValidatorEntry // sorted by Operator address ascending
}

// EntryOf returns the operator's entry and whether it is present.
func (vs *ValidatorSet) EntryOf(operator Address) (*ValidatorEntry, bool) {
	if vs == nil {
		return nil, false
	}
	for i := range vs.Entries {
		if vs.Entries[i].Operator == operator {
			return &vs.Entries[i], true
		}
	}
	return nil, false
}

// LockedPowerOf is a convenience accessor combining EntryOf + LockedPowerOf,
// returning 0 for an operator or owner absent from the set.
func (vs *ValidatorSet) LockedPowerOf(operator, owner Address) uint64 {
	e, ok := vs.EntryOf(operator)
	if !ok {
		return 0
	}
	return e.LockedPowerOf(owner)
}

// SortEntries restores the address-ascending invariant, used after building
// a ValidatorSet from an unordered source (e.g. select_top_k).
func SortEntries(entries []ValidatorEntry) {
	for i := range entries {
		ss := entries[i].Stakes
		for j := 1; j < len(ss); j++ {
			k := j
			for k > 0 && bytes.Compare(ss[k].Owner[:], ss[k-1].Owner[:]) < 0 {
				ss[k], ss[k-1] = ss[k-1], ss[k]
				k--
			}
		}
	}
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && bytes.Compare(entries[j].Operator[:], entries[j-1].Operator[:]) < 0 {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}
}

func (vs *ValidatorSet) Clone() *ValidatorSet {
	if vs == nil {
		return &ValidatorSet{}
	}
	out := &ValidatorSet{Entries: make([]ValidatorEntry, len(vs.Entries))}
	for i, e := range vs.Entries {
		out.Entries[i] = ValidatorEntry{
			Operator: e.Operator,
			Stakes:   append([]Stake(nil), e.Stakes...),
		}
	}
	return out
}
