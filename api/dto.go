// Package api defines the JSON wire shapes for transitiond's HTTP surface
// and the conversions between them and the core transition types.
package api

import (
	"encoding/hex"
	"fmt"

	"github.com/ironledger/statecore/core/types"
)

// Address is the hex-string wire encoding of a types.Address.
type Address string

func (a Address) decode() (types.Address, error) {
	trimmed := string(a)
	if len(trimmed) >= 2 && trimmed[0:2] == "0x" {
		trimmed = trimmed[2:]
	}
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return types.Address{}, fmt.Errorf("api: invalid address %q: %w", a, err)
	}
	if len(b) != 32 {
		return types.Address{}, fmt.Errorf("api: address %q must be 32 bytes, got %d", a, len(b))
	}
	return types.BytesToAddress(b), nil
}

func encodeAddress(a types.Address) Address {
	return Address("0x" + hex.EncodeToString(a[:]))
}

// Command is the wire shape of one types.Command. Only the fields the
// given Kind uses need be populated; the rest are ignored.
type Command struct {
	Kind uint8 `json:"kind"`

	Recipient Address `json:"recipient,omitempty"`
	Amount    uint64  `json:"amount,omitempty"`

	ContractCode string `json:"contract_code,omitempty"` // hex
	CBIVersion   uint32 `json:"cbi_version,omitempty"`

	ContractAddress Address `json:"contract_address,omitempty"`
	Method          string  `json:"method,omitempty"`
	Args            string  `json:"args,omitempty"` // hex

	CommissionRate uint8 `json:"commission_rate,omitempty"`

	Operator         Address `json:"operator,omitempty"`
	AutoStakeRewards bool    `json:"auto_stake_rewards,omitempty"`
}

func (c Command) decode() (types.Command, error) {
	out := types.Command{
		Kind:             types.CommandKind(c.Kind),
		Amount:           c.Amount,
		CBIVersion:       c.CBIVersion,
		Method:           c.Method,
		CommissionRate:   c.CommissionRate,
		AutoStakeRewards: c.AutoStakeRewards,
	}
	var err error
	if c.Recipient != "" {
		if out.Recipient, err = c.Recipient.decode(); err != nil {
			return out, err
		}
	}
	if c.ContractAddress != "" {
		if out.ContractAddress, err = c.ContractAddress.decode(); err != nil {
			return out, err
		}
	}
	if c.Operator != "" {
		if out.Operator, err = c.Operator.decode(); err != nil {
			return out, err
		}
	}
	if c.ContractCode != "" {
		if out.ContractCode, err = hex.DecodeString(c.ContractCode); err != nil {
			return out, fmt.Errorf("api: invalid contract_code: %w", err)
		}
	}
	if c.Args != "" {
		if out.Args, err = hex.DecodeString(c.Args); err != nil {
			return out, fmt.Errorf("api: invalid args: %w", err)
		}
	}
	return out, nil
}

// TransactionRequest is the wire shape of the transaction and block
// context a /v1/transition call submits.
type TransactionRequest struct {
	Variant           uint8     `json:"variant"`
	Signer            Address   `json:"signer"`
	Nonce             uint64    `json:"nonce"`
	GasLimit          uint64    `json:"gas_limit"`
	BaseFeePerGas     uint64    `json:"base_fee_per_gas"`
	PriorityFeePerGas uint64    `json:"priority_fee_per_gas"`
	Commands          []Command `json:"commands"`
	SizeBytes         uint64    `json:"size_bytes"`

	BlockHeight    uint64  `json:"block_height"`
	Proposer       Address `json:"proposer"`
	Treasury       Address `json:"treasury"`
	Timestamp      uint64  `json:"timestamp"`
	BlocksPerEpoch uint64  `json:"blocks_per_epoch,omitempty"`
}

func (r *TransactionRequest) decode() (*types.Transaction, *types.BlockchainData, error) {
	signer, err := r.Signer.decode()
	if err != nil {
		return nil, nil, err
	}
	proposer, err := r.Proposer.decode()
	if err != nil {
		return nil, nil, err
	}
	treasury, err := r.Treasury.decode()
	if err != nil {
		return nil, nil, err
	}

	cmds := make([]types.Command, len(r.Commands))
	for i, c := range r.Commands {
		decoded, err := c.decode()
		if err != nil {
			return nil, nil, fmt.Errorf("command[%d]: %w", i, err)
		}
		cmds[i] = decoded
	}

	tx := &types.Transaction{
		Variant:           types.Variant(r.Variant),
		Signer:            signer,
		Nonce:             r.Nonce,
		GasLimit:          r.GasLimit,
		BaseFeePerGas:     r.BaseFeePerGas,
		PriorityFeePerGas: r.PriorityFeePerGas,
		Commands:          cmds,
		SizeBytes:         r.SizeBytes,
	}
	bd := &types.BlockchainData{
		BlockHeight:    r.BlockHeight,
		Proposer:       proposer,
		Treasury:       treasury,
		Timestamp:      r.Timestamp,
		BaseFeePerGas:  r.BaseFeePerGas,
		BlocksPerEpoch: r.BlocksPerEpoch,
	}
	return tx, bd, nil
}

// LogEntry is the wire shape of a types.Log.
type LogEntry struct {
	Topics []string `json:"topics"`
	Data   string   `json:"data"`
}

func encodeLogs(logs []types.Log) []LogEntry {
	out := make([]LogEntry, len(logs))
	for i, l := range logs {
		topics := make([]string, len(l.Topics))
		for j, t := range l.Topics {
			topics[j] = hex.EncodeToString(t)
		}
		out[i] = LogEntry{Topics: topics, Data: hex.EncodeToString(l.Data)}
	}
	return out
}

// CommandReceipt is the wire shape of a types.CommandReceipt.
type CommandReceipt struct {
	ExitStatus  uint8      `json:"exit_status"`
	GasUsed     uint64     `json:"gas_used"`
	ReturnValue string     `json:"return_value"`
	Logs        []LogEntry `json:"logs"`
}

// Receipt is the wire shape of a types.Receipt.
type Receipt struct {
	ExitStatusOverall uint8            `json:"exit_status_overall"`
	GasUsed           uint64           `json:"gas_used"`
	CommandReceipts   []CommandReceipt `json:"command_receipts"`
}

func encodeReceipt(r *types.Receipt) *Receipt {
	if r == nil {
		return nil
	}
	out := &Receipt{
		ExitStatusOverall: uint8(r.ExitStatusOverall),
		GasUsed:           r.GasUsed,
		CommandReceipts:   make([]CommandReceipt, len(r.CommandReceipts)),
	}
	for i, cr := range r.CommandReceipts {
		out.CommandReceipts[i] = CommandReceipt{
			ExitStatus:  uint8(cr.ExitStatus),
			GasUsed:     cr.GasUsed,
			ReturnValue: hex.EncodeToString(cr.ReturnValue),
			Logs:        encodeLogs(cr.Logs),
		}
	}
	return out
}

// TransitionResponse is what /v1/transition returns.
type TransitionResponse struct {
	Receipt *Receipt `json:"receipt,omitempty"`
	Error   string   `json:"error,omitempty"`
}
