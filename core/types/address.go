package types

import "encoding/hex"

// Address is a 32-byte account identifier. World-state keys are built from
// a domain tag plus, for most of them, one or more addresses (see the key
// builders in core/rws/keys.go).
type Address [32]byte

// String renders the address as a lowercase hex string.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the all-zero sentinel, used for
// "unset" recipients such as an empty delegated-validator slot.
func (a Address) IsZero() bool {
	return a == Address{}
}

// BytesToAddress copies up to 32 bytes from b into a new Address, left-padding
// is not performed; callers must supply exactly 32 bytes in production use.
func BytesToAddress(b []byte) Address {
	var a Address
	copy(a[:], b)
	return a
}
