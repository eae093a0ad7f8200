package contract

import "crypto/sha256"

func sha256Sum(input []byte) [32]byte {
	return sha256.Sum256(input)
}
