package execution

import "github.com/ironledger/statecore/core/types"

// receiptBuilder assembles per-command outcomes into a transaction
// receipt, tracking overall exit status as it goes. extended mirrors the
// active variant's ReceiptShape.ExtendedFields: when false, the V5-only
// fields are left zero on every receipt it builds.
type receiptBuilder struct {
	overall  types.ExitStatus
	receipts []types.CommandReceipt
	extended bool
}

// append folds one command's outcome and finalized gas into the receipt.
func (b *receiptBuilder) append(out *types.CommandOutput, err error, gasUsed uint64) {
	cr := types.CommandReceipt{ExitStatus: types.ExitSuccess, GasUsed: gasUsed}
	if out != nil {
		cr.ReturnValue = out.ReturnValue
		cr.Logs = out.Logs
		if b.extended {
			cr.GasUsedInWasm = out.GasUsedInWasm
		}
	}
	if err != nil {
		cr.ExitStatus = types.ExitFailed
		b.overall = types.ExitFailed
	}
	b.receipts = append(b.receipts, cr)
}

// build produces the final Receipt with the given total gas_used and, when
// extended, the transaction's fixed inclusion-gas cost broken out.
func (b *receiptBuilder) build(gasUsed uint64, txnInclusionGas uint64) *types.Receipt {
	r := &types.Receipt{
		ExitStatusOverall: b.overall,
		GasUsed:           gasUsed,
		CommandReceipts:   b.receipts,
	}
	if b.extended {
		r.TxnInclusionGas = txnInclusionGas
	}
	return r
}
