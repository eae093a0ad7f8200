// Package contract implements the Contract Runtime: module
// instantiation by CBI version, host-import binding routed through the
// gas meter and RWS, metered execution, and deferred-command capture.
//
// Host functions are bound the same way
// other_examples/weisyn-go-weisyn__wasm_adapter.go binds wazero host
// functions: closures of shape func(ctx, m api.Module, ptr/len uint32...)
// that read/write the guest's linear memory directly, with bounds checks
// before every access.
package contract

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"

	"github.com/ironledger/statecore/core/accounts"
	"github.com/ironledger/statecore/core/execstate"
	"github.com/ironledger/statecore/core/txerrors"
	"github.com/ironledger/statecore/core/types"
)

// wasmPerHostCallCost is charged once per Call, just before the exported
// method is entered, standing in for the reference runtime's
// per-instruction metering: wazero compiles to native code ahead of time
// and exposes no opcode-level cost hook. Host-import crossings made by the
// guest do not pay it; they pay only the wasmMemCost charges on the bytes
// they read from guest memory plus their own storage and crypto charges
// (see DESIGN.md's Open Question resolution on WASM metering).
const wasmPerHostCallCost = 10

// Runtime is the CBI-versioned contract execution environment.
type Runtime struct {
	engine wazero.Runtime
}

// New constructs a Runtime backed by a fresh wazero engine.
func New(ctx context.Context) *Runtime {
	return &Runtime{engine: wazero.NewRuntime(ctx)}
}

// Close releases the underlying wazero engine's resources.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}

// CallResult is what the Contract Runtime reports back to the Call
// executor after a method invocation.
type CallResult struct {
	ReturnValue   []byte
	Logs          []types.Log
	GasUsedInWasm uint64
	Deferred      []types.DeferredCommand
}

// Validate compiles code and instantiates it against the full host-import
// set, without calling any exported function. Deploy calls this before
// storing a module so that a malformed module or one requiring
// unsupported host imports fails at Deploy time rather than at first Call.
func (r *Runtime) Validate(ctx context.Context, code []byte) error {
	host := &hostBinding{}

	builder := r.engine.NewHostModuleBuilder("env")
	host.register(builder)
	hostMod, err := builder.Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("%w: host module instantiation: %v", txerrors.ErrContractInstantiationFailed, err)
	}
	defer hostMod.Close(ctx)

	compiled, err := r.engine.CompileModule(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: compile: %v", txerrors.ErrContractInstantiationFailed, err)
	}
	defer compiled.Close(ctx)

	mod, err := r.engine.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return fmt.Errorf("%w: instantiate: %v", txerrors.ErrContractInstantiationFailed, err)
	}
	return mod.Close(ctx)
}

// Call loads the module at addr, instantiates it with host imports bound
// to s, runs method with ABI-encoded args, and reports gas used, the
// return value, emitted logs, and any deferred commands the contract
// submitted. Host-module, compile, and instantiation failures surface as
// ContractInstantiationFailed; a missing contract, a missing method, traps,
// and ABI mismatches surface as ContractCallFailed.
func (r *Runtime) Call(ctx context.Context, s *execstate.State, addr types.Address, method string, args []byte) (*CallResult, error) {
	code, present, err := accounts.ContractCode(s.Gas, addr)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, txerrors.ErrContractCallFailed
	}

	host := &hostBinding{state: s, addr: addr}

	builder := r.engine.NewHostModuleBuilder("env")
	host.register(builder)
	hostMod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: host module instantiation: %v", txerrors.ErrContractInstantiationFailed, err)
	}
	defer hostMod.Close(ctx)

	compiled, err := r.engine.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %v", txerrors.ErrContractInstantiationFailed, err)
	}

	mod, err := r.engine.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: instantiate: %v", txerrors.ErrContractInstantiationFailed, err)
	}
	defer mod.Close(ctx)

	fn := mod.ExportedFunction(method)
	if fn == nil {
		return nil, fmt.Errorf("%w: method %q not exported", txerrors.ErrContractCallFailed, method)
	}

	host.mod = mod
	argsPtr, argsLen, err := host.writeBytes(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", txerrors.ErrContractCallFailed, err)
	}

	if err := host.chargeWasm(wasmPerHostCallCost); err != nil {
		return nil, err
	}
	results, err := fn.Call(ctx, uint64(argsPtr), uint64(argsLen))
	if err != nil {
		return nil, fmt.Errorf("%w: trap: %v", txerrors.ErrContractCallFailed, err)
	}

	var returnValue []byte
	if len(results) == 2 {
		returnValue, err = host.readBytes(ctx, uint32(results[0]), uint32(results[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", txerrors.ErrContractCallFailed, err)
		}
	}

	return &CallResult{
		ReturnValue:   returnValue,
		Logs:          host.logs,
		GasUsedInWasm: host.gasUsedInWasm,
		Deferred:      host.deferred,
	}, nil
}

var errOutOfBounds = errors.New("contract: memory access out of bounds")

// hostBinding implements the host-function set a CBI-v0 contract can
// import: world-state access (routed through accounts+gas), crypto
// primitives (routed through gas), balance transfers, deferred-command
// submission, and log emission.
type hostBinding struct {
	state *execstate.State
	addr  types.Address
	mod   api.Module

	logs           []types.Log
	deferred       []types.DeferredCommand
	gasUsedInWasm  uint64
}

func (h *hostBinding) register(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().WithFunc(h.hostGetStorage).Export("get_storage")
	b.NewFunctionBuilder().WithFunc(h.hostSetStorage).Export("set_storage")
	b.NewFunctionBuilder().WithFunc(h.hostDeleteStorage).Export("delete_storage")
	b.NewFunctionBuilder().WithFunc(h.hostTransfer).Export("transfer")
	b.NewFunctionBuilder().WithFunc(h.hostEmitLog).Export("emit_log")
	b.NewFunctionBuilder().WithFunc(h.hostDeferCommand).Export("defer_command")
	b.NewFunctionBuilder().WithFunc(h.hostSHA256).Export("host_sha256")
	b.NewFunctionBuilder().WithFunc(h.hostKeccak256).Export("host_keccak256")
	b.NewFunctionBuilder().WithFunc(h.hostRipemd160).Export("host_ripemd160")
	b.NewFunctionBuilder().WithFunc(h.hostBlake2b).Export("host_blake2b")
	b.NewFunctionBuilder().WithFunc(h.hostVerifyEd25519).Export("host_verify_ed25519")
}

// chargeWasm draws down the host-side budget and keeps the reported
// gas_used_in_wasm total in sync with it.
func (h *hostBinding) chargeWasm(amount uint64) error {
	if err := h.state.Gas.ChargeWasm(amount); err != nil {
		h.gasUsedInWasm += amount
		return err
	}
	h.gasUsedInWasm += amount
	return nil
}

func (h *hostBinding) readBytes(ctx context.Context, ptr, length uint32) ([]byte, error) {
	buf, ok := h.mod.Memory().Read(ptr, length)
	if !ok {
		return nil, errOutOfBounds
	}
	if err := h.chargeWasm(wasmMemCost(int(length))); err != nil {
		return nil, err
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func (h *hostBinding) writeBytes(ctx context.Context, data []byte) (ptr, length uint32, err error) {
	alloc := h.mod.ExportedFunction("malloc")
	if alloc == nil {
		return 0, 0, errors.New("contract: module does not export malloc")
	}
	results, err := alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, 0, err
	}
	ptr = uint32(results[0])
	if !h.mod.Memory().Write(ptr, data) {
		return 0, 0, errOutOfBounds
	}
	if err := h.chargeWasm(wasmMemCost(len(data))); err != nil {
		return 0, 0, err
	}
	return ptr, uint32(len(data)), nil
}

func wasmMemCost(length int) uint64 {
	return uint64(length)/8 + 1
}

// hostGetStorage: (key_ptr, key_len, out_ptr, out_len) -> actual_len (0 if absent).
func (h *hostBinding) hostGetStorage(ctx context.Context, m api.Module, keyPtr, keyLen, outPtr, outLen uint32) uint32 {
	key, err := h.readBytes(ctx, keyPtr, keyLen)
	if err != nil {
		return 0
	}
	value, present, err := accounts.AppData(h.state.Gas, h.state.Strat, h.addr, key)
	if err != nil || !present {
		return 0
	}
	if uint32(len(value)) > outLen {
		return 0
	}
	if !m.Memory().Write(outPtr, value) {
		return 0
	}
	return uint32(len(value))
}

// hostSetStorage: (key_ptr, key_len, val_ptr, val_len) -> 1 on success.
func (h *hostBinding) hostSetStorage(ctx context.Context, m api.Module, keyPtr, keyLen, valPtr, valLen uint32) uint32 {
	key, err := h.readBytes(ctx, keyPtr, keyLen)
	if err != nil {
		return 0
	}
	value, err := h.readBytes(ctx, valPtr, valLen)
	if err != nil {
		return 0
	}
	if err := accounts.SetAppData(h.state.Gas, h.state.Strat, h.addr, key, value); err != nil {
		return 0
	}
	return 1
}

// hostDeleteStorage: (key_ptr, key_len) -> 1 on success.
func (h *hostBinding) hostDeleteStorage(ctx context.Context, m api.Module, keyPtr, keyLen uint32) uint32 {
	key, err := h.readBytes(ctx, keyPtr, keyLen)
	if err != nil {
		return 0
	}
	if err := accounts.DeleteAppData(h.state.Gas, h.state.Strat, h.addr, key); err != nil {
		return 0
	}
	return 1
}

// hostTransfer: (to_ptr, to_len, amount) -> 1 on success, 0 on insufficient
// balance.
func (h *hostBinding) hostTransfer(ctx context.Context, m api.Module, toPtr, toLen uint32, amount uint64) uint32 {
	toBytes, err := h.readBytes(ctx, toPtr, toLen)
	if err != nil || len(toBytes) != 32 {
		return 0
	}
	to := types.BytesToAddress(toBytes)
	if err := accounts.DebitBalance(h.state.Gas, h.addr, amount); err != nil {
		return 0
	}
	if err := accounts.CreditBalance(h.state.Gas, to, amount); err != nil {
		return 0
	}
	return 1
}

// hostEmitLog: (topic_ptr, topic_len, data_ptr, data_len) -> 1.
func (h *hostBinding) hostEmitLog(ctx context.Context, m api.Module, topicPtr, topicLen, dataPtr, dataLen uint32) uint32 {
	topic, err := h.readBytes(ctx, topicPtr, topicLen)
	if err != nil {
		return 0
	}
	data, err := h.readBytes(ctx, dataPtr, dataLen)
	if err != nil {
		return 0
	}
	if err := h.state.Gas.ChargeLog(len(topic), len(data)); err != nil {
		return 0
	}
	h.logs = append(h.logs, types.Log{Topics: [][]byte{topic}, Data: data})
	return 1
}

// hostDeferCommand: (contract_ptr[32], encoded_cmd_ptr, encoded_cmd_len) -> 1.
// The encoded command is a Transfer-only envelope (recipient[32]‖amount[8])
// in this CBI version; richer deferred-command kinds are a future CBI
// version's concern.
func (h *hostBinding) hostDeferCommand(ctx context.Context, m api.Module, contractPtr, cmdPtr, cmdLen uint32) uint32 {
	contractBytes, err := h.readBytes(ctx, contractPtr, 32)
	if err != nil {
		return 0
	}
	cmdBytes, err := h.readBytes(ctx, cmdPtr, cmdLen)
	if err != nil || len(cmdBytes) < 40 {
		return 0
	}
	recipient := types.BytesToAddress(cmdBytes[0:32])
	var amount uint64
	for i := 0; i < 8; i++ {
		amount |= uint64(cmdBytes[32+i]) << (8 * i)
	}
	h.deferred = append(h.deferred, types.DeferredCommand{
		ContractAddress: types.BytesToAddress(contractBytes),
		Command: types.Command{
			Kind:      types.CommandTransfer,
			Recipient: recipient,
			Amount:    amount,
		},
	})
	return 1
}

// hostSHA256: (in_ptr, in_len, out_ptr[32]) -> 1.
func (h *hostBinding) hostSHA256(ctx context.Context, m api.Module, inPtr, inLen, outPtr uint32) uint32 {
	input, err := h.readBytes(ctx, inPtr, inLen)
	if err != nil {
		return 0
	}
	if err := h.state.Gas.HostSHA256(input); err != nil {
		return 0
	}
	digest := sha256Sum(input)
	if !m.Memory().Write(outPtr, digest[:]) {
		return 0
	}
	return 1
}

// hostKeccak256: (in_ptr, in_len, out_ptr[32]) -> 1.
func (h *hostBinding) hostKeccak256(ctx context.Context, m api.Module, inPtr, inLen, outPtr uint32) uint32 {
	input, err := h.readBytes(ctx, inPtr, inLen)
	if err != nil {
		return 0
	}
	if err := h.state.Gas.HostKeccak256(input); err != nil {
		return 0
	}
	digest := ethcrypto.Keccak256(input)
	if !m.Memory().Write(outPtr, digest) {
		return 0
	}
	return 1
}

// hostRipemd160: (in_ptr, in_len, out_ptr[20]) -> 1.
func (h *hostBinding) hostRipemd160(ctx context.Context, m api.Module, inPtr, inLen, outPtr uint32) uint32 {
	input, err := h.readBytes(ctx, inPtr, inLen)
	if err != nil {
		return 0
	}
	if err := h.state.Gas.HostRipemd160(input); err != nil {
		return 0
	}
	hasher := ripemd160.New()
	hasher.Write(input)
	if !m.Memory().Write(outPtr, hasher.Sum(nil)) {
		return 0
	}
	return 1
}

// hostBlake2b: (in_ptr, in_len, out_ptr[32]) -> 1.
func (h *hostBinding) hostBlake2b(ctx context.Context, m api.Module, inPtr, inLen, outPtr uint32) uint32 {
	input, err := h.readBytes(ctx, inPtr, inLen)
	if err != nil {
		return 0
	}
	if err := h.state.Gas.HostBlake2b(input); err != nil {
		return 0
	}
	digest := blake2b.Sum256(input)
	if !m.Memory().Write(outPtr, digest[:]) {
		return 0
	}
	return 1
}

// hostVerifyEd25519: (pubkey_ptr[32], msg_ptr, msg_len, sig_ptr[64]) -> 1
// if the signature verifies, 0 otherwise (including malformed key/sig
// lengths).
func (h *hostBinding) hostVerifyEd25519(ctx context.Context, m api.Module, pubkeyPtr, msgPtr, msgLen, sigPtr uint32) uint32 {
	pubkey, err := h.readBytes(ctx, pubkeyPtr, ed25519.PublicKeySize)
	if err != nil {
		return 0
	}
	msg, err := h.readBytes(ctx, msgPtr, msgLen)
	if err != nil {
		return 0
	}
	sig, err := h.readBytes(ctx, sigPtr, ed25519.SignatureSize)
	if err != nil {
		return 0
	}
	if err := h.state.Gas.HostVerifyEd25519(msg); err != nil {
		return 0
	}
	if !ed25519.Verify(pubkey, msg, sig) {
		return 0
	}
	return 1
}
