package sutra

import (
	"github.com/ehrlich-b/sutra-kernel/internal/capability"
	"github.com/ehrlich-b/sutra-kernel/internal/registry"
	"github.com/ehrlich-b/sutra-kernel/internal/sched"
	"github.com/ehrlich-b/sutra-kernel/internal/steno"
)

// Syscall numbers: a fixed, stable ABI table. Additions append; numbers
// are never reused.
const (
	SyscallExit        uint32 = 0
	SyscallYield       uint32 = 1
	SyscallPrint       uint32 = 2
	SyscallSleepMS     uint32 = 3
	SyscallOpen        uint32 = 4
	SyscallRead        uint32 = 6
	SyscallParseIntent uint32 = 22
	SyscallBindUDP     uint32 = 23
	SyscallRecvFrom    uint32 = 24
	SyscallIPCSend     uint32 = 26
	SyscallIPCRecv     uint32 = 27
	SyscallAnnounce    uint32 = 28
)

// SyscallErr is the sentinel return value denoting failure, POSIX-style:
// the maximum representable value, distinguishable from any real
// success value these calls return.
const SyscallErr uint64 = ^uint64(0)

// SyscallArgs carries the (up to four) numbered-register arguments a
// syscall takes; unused slots are zero.
type SyscallArgs [4]uint64

// SyscallHandler is one entry in the syscall table: given the calling
// agent, its arguments, and its capability oracle, it returns a result
// register value or SyscallErr. The oracle is the same one Dispatch
// already checked syscallRequiredCap against, passed through so a
// handler that dispatches further (parse_intent's concept lookup) can
// gate on the real caller rather than granting itself a blanket one.
type SyscallHandler func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64

// syscallRequiredCap names the capability type gating a syscall number,
// nil meaning no capability is required.
var syscallRequiredCap = map[uint32]*capability.Type{
	SyscallOpen:     capTypePtr(capability.TypeStorage),
	SyscallRead:     capTypePtr(capability.TypeStorage),
	SyscallBindUDP:  capTypePtr(capability.TypeNetwork),
	SyscallRecvFrom: capTypePtr(capability.TypeNetwork),
}

func capTypePtr(t capability.Type) *capability.Type { return &t }

// notImplementedStub answers a syscall whose real implementation lives
// outside this core (filesystem, network): capabilities and argument
// shape are still validated by Dispatch before this body runs, but the
// body itself always reports failure.
func notImplementedStub(*Kernel, AgentID, SyscallArgs, registry.CapOracle) uint64 { return SyscallErr }

// syscallTable is the fixed dispatcher: map[uint32]SyscallHandler.
var syscallTable = map[uint32]SyscallHandler{
	SyscallExit: func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
		k.Sched.Kill(sched.AgentID(caller))
		return 0
	},
	SyscallYield: func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
		if a, ok := k.Sched.Agent(sched.AgentID(caller)); ok {
			a.Yield()
		}
		return 0
	},
	SyscallPrint: func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
		length := args[1]
		return length
	},
	SyscallSleepMS: func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
		return 0
	},
	SyscallOpen:        notImplementedStub,
	SyscallRead:        notImplementedStub,
	SyscallBindUDP:     notImplementedStub,
	SyscallRecvFrom:    notImplementedStub,
	SyscallParseIntent: nil, // installed in init below
	SyscallIPCSend: func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
		target := sched.AgentID(args[0])
		agent, ok := k.Sched.Agent(target)
		if !ok {
			return SyscallErr
		}
		var payload [64]byte
		if err := agent.Mailbox.Send(sched.Message{SenderID: sched.AgentID(caller), Payload: payload}); err != nil {
			return SyscallErr
		}
		k.Sched.Wake(target)
		return 0
	},
	SyscallIPCRecv: func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
		agent, ok := k.Sched.Agent(sched.AgentID(caller))
		if !ok {
			return SyscallErr
		}
		msg, ok := agent.Mailbox.TryReceive()
		if !ok {
			return SyscallErr
		}
		return uint64(msg.SenderID)
	},
	SyscallAnnounce: func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
		k.Router.Announce(sched.AgentID(caller), registry.ConceptID(args[0]))
		return 0
	},
}

func init() {
	// parse_intent takes an already-resolved concept id in args[0]; it
	// reads no text buffer and does no lexing (string-to-stroke parsing
	// is internal/steno's ParseSteno, upstream of the syscall boundary).
	// UNKNOWN, or a submission SubmitIntent does not report as handled,
	// returns 1.
	syscallTable[SyscallParseIntent] = func(k *Kernel, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
		concept := steno.ConceptID(args[0])
		if concept == steno.Unknown {
			return 1
		}
		handled, errored := k.Router.SubmitIntent(registry.ConceptID(concept), sched.AgentID(caller), [64]byte{}, oracle)
		if errored {
			k.Metrics.RecordHandlerError()
		}
		k.Metrics.RecordIntent(handled)
		if !handled {
			return 1
		}
		return 0
	}
}

// Dispatch invokes the syscall table entry for num, enforcing the
// capability named in syscallRequiredCap (if any) against oracle before
// the handler body runs. Unknown syscall numbers return SyscallErr.
func (k *Kernel) Dispatch(num uint32, caller AgentID, args SyscallArgs, oracle registry.CapOracle) uint64 {
	handler, ok := syscallTable[num]
	if !ok {
		return SyscallErr
	}
	if required := syscallRequiredCap[num]; required != nil {
		if oracle == nil || !oracle(*required) {
			return SyscallErr
		}
	}
	return handler(k, caller, args, oracle)
}
