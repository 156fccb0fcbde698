// Package capability implements the kernel's capability table: minting,
// derivation, revocation cascades, and generation-based global
// invalidation.
package capability

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/ehrlich-b/sutra-kernel/internal/constants"
)

// Type tags the resource a capability grants access to.
type Type int

const (
	TypeNull Type = iota
	TypeMemory
	TypeDevice
	TypeInterrupt
	TypeTimer
	TypeDisplay
	TypeCompute
	TypeNetwork
	TypeStorage
	TypeInput
	TypeIntent
	TypeControl
	TypeSystem
)

// Permission is a single bit in the capability's permission set.
type Permission uint8

const (
	PermRead Permission = 1 << iota
	PermWrite
	PermExecute
	PermDelete
	PermShare
	PermDelegate
	PermRevoke
)

// PermAll is the full permission set, used when minting root capabilities.
const PermAll = PermRead | PermWrite | PermExecute | PermDelete | PermShare | PermDelegate | PermRevoke

// Has reports whether all bits in want are set in p.
func (p Permission) Has(want Permission) bool {
	return p&want == want
}

// Capability is a value type: the table is the sole authoritative store,
// this struct is a copy handed to callers.
type Capability struct {
	ID          uint64
	Generation  uint64
	Type        Type
	Permissions Permission
	resource    uint64 // XOR-masked; use Table.DecryptResource
	Size        uint64
}

// entry is the table's internal bookkeeping record for one capability.
type entry struct {
	cap      Capability
	parentID uint64 // 0 marks a root capability
	revoked  bool
}

// Table is the authoritative capability store.
type Table struct {
	mu         sync.Mutex
	key        uint64
	generation uint64
	nextID     uint64
	capacity   int
	entries    map[uint64]*entry
	children   map[uint64][]uint64 // parentID -> child ids, for revoke cascade
}

// NewTable constructs an empty capability table with a fresh random
// resource-masking key, bounded at the built-in default capacity.
func NewTable() *Table {
	return NewTableWithCapacity(constants.DefaultCapabilityTableCapacity)
}

// NewTableWithCapacity constructs an empty capability table bounded at
// capacity live entries; a non-positive capacity falls back to the
// built-in default.
func NewTableWithCapacity(capacity int) *Table {
	if capacity <= 0 {
		capacity = constants.DefaultCapabilityTableCapacity
	}
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return &Table{
		key:      binary.LittleEndian.Uint64(buf[:]),
		nextID:   1,
		capacity: capacity,
		entries:  make(map[uint64]*entry),
		children: make(map[uint64][]uint64),
	}
}

// MintRoot allocates a fresh root capability. The caller is assumed to
// already hold the authority to mint (enforced above this layer, e.g. by
// requiring a System/Control capability to invoke it at all). Returns
// the zero Capability (ID 0, never otherwise assigned) if the table is
// already at capacity.
func (t *Table) MintRoot(typ Type, resource, size uint64, perms Permission) Capability {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) >= t.capacity {
		return Capability{}
	}

	id := t.nextID
	t.nextID++

	c := Capability{
		ID:          id,
		Generation:  t.generation,
		Type:        typ,
		Permissions: perms,
		resource:    resource ^ t.key,
		Size:        size,
	}
	t.entries[id] = &entry{cap: c, parentID: 0}
	return c
}

// Derive creates a child capability from parent, intersecting permissions
// with those requested and always stripping Delegate from the child.
func (t *Table) Derive(parent Capability, requested Permission) (Capability, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pe, ok := t.entries[parent.ID]
	if !ok || pe.revoked || pe.cap.Generation != t.generation {
		return Capability{}, ErrRevoked
	}
	if !pe.cap.Permissions.Has(PermDelegate) {
		return Capability{}, ErrNoDelegate
	}
	if len(t.entries) >= t.capacity {
		return Capability{}, ErrTableFull
	}

	childPerms := (pe.cap.Permissions & requested) &^ PermDelegate

	id := t.nextID
	t.nextID++

	c := Capability{
		ID:          id,
		Generation:  t.generation,
		Type:        pe.cap.Type,
		Permissions: childPerms,
		resource:    pe.cap.resource,
		Size:        pe.cap.Size,
	}
	t.entries[id] = &entry{cap: c, parentID: parent.ID}
	t.children[parent.ID] = append(t.children[parent.ID], id)
	return c, nil
}

// Revoke marks cap and every transitive descendant revoked. Returns
// false without effect if cap lacks the Revoke permission.
func (t *Table) Revoke(cap Capability) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[cap.ID]
	if !ok {
		return false
	}
	if !e.cap.Permissions.Has(PermRevoke) {
		return false
	}

	// DFS cascade over parent-id links; order is irrelevant since the
	// revoked flag is idempotent.
	stack := []uint64{cap.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if ent, ok := t.entries[id]; ok {
			ent.revoked = true
		}
		stack = append(stack, t.children[id]...)
	}
	return true
}

// Validate reports whether cap is present, not revoked, and current.
func (t *Table) Validate(cap Capability) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[cap.ID]
	if !ok || e.revoked {
		return false
	}
	return e.cap.Generation == t.generation
}

// DecryptResource returns the plaintext resource handle. Only meaningful
// after Validate(cap) is true.
func (t *Table) DecryptResource(cap Capability) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[cap.ID]
	if !ok {
		return 0
	}
	return e.cap.resource ^ t.key
}

// GlobalRevoke bumps the generation counter and drops every entry,
// invalidating every outstanding capability by definition.
func (t *Table) GlobalRevoke() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.entries = make(map[uint64]*entry)
	t.children = make(map[uint64][]uint64)
}

// Generation returns the table's current generation counter.
func (t *Table) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}
