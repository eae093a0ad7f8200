package types

// BlockProposalStats is the supplemental per-operator performance signal
// consumed by the NextEpoch reward curve. Without it the
// reward curve has nothing to weight proposal activity by.
type BlockProposalStats struct {
	Operator        Address
	ProposedBlocks  uint64
}

// BlockchainData is the per-block context supplied alongside a transaction.
type BlockchainData struct {
	BlockHeight       uint64
	BlockHash         [32]byte
	Proposer          Address
	Treasury          Address
	PrevBlockHash     [32]byte
	Timestamp         uint64
	BaseFeePerGas     uint64

	// BlocksPerEpoch and ProposalStats are only read by the NextEpoch
	// executor's reward curve (core/rewards).
	BlocksPerEpoch uint64
	ProposalStats  []BlockProposalStats
}

// ProposedBlocksOf returns how many blocks an operator proposed this
// epoch, or 0 if it did not propose any.
func (bd *BlockchainData) ProposedBlocksOf(operator Address) uint64 {
	for _, s := range bd.ProposalStats {
		if s.Operator == operator {
			return s.ProposedBlocks
		}
	}
	return 0
}
