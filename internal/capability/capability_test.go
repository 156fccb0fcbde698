package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMintRootValidates(t *testing.T) {
	table := NewTable()
	c := table.MintRoot(TypeMemory, 0x1000, 0x100, PermAll)
	assert.True(t, table.Validate(c))
	assert.Equal(t, uint64(0x1000), table.DecryptResource(c))
}

func TestDeriveRevokeCascade(t *testing.T) {
	table := NewTable()
	c0 := table.MintRoot(TypeMemory, 0x1000, 0x100, PermAll)

	c1, err := table.Derive(c0, PermRead)
	assert.NoError(t, err)
	assert.False(t, c1.Permissions.Has(PermDelegate))

	_, err = table.Derive(c1, PermRead)
	assert.ErrorIs(t, err, ErrNoDelegate)

	assert.True(t, table.Validate(c1))
	assert.True(t, table.Revoke(c0))
	assert.False(t, table.Validate(c0))
	assert.False(t, table.Validate(c1))
}

func TestDerivePermissionIntersection(t *testing.T) {
	table := NewTable()
	c0 := table.MintRoot(TypeMemory, 0, 0, PermRead|PermWrite|PermDelegate)
	c1, err := table.Derive(c0, PermRead|PermWrite|PermExecute)
	assert.NoError(t, err)
	assert.True(t, c1.Permissions.Has(PermRead))
	assert.True(t, c1.Permissions.Has(PermWrite))
	assert.False(t, c1.Permissions.Has(PermExecute))
	assert.False(t, c1.Permissions.Has(PermDelegate))
}

func TestRevokeRequiresPermission(t *testing.T) {
	table := NewTable()
	c0 := table.MintRoot(TypeMemory, 0, 0, PermRead)
	assert.False(t, table.Revoke(c0))
	assert.True(t, table.Validate(c0))
}

func TestGlobalRevoke(t *testing.T) {
	table := NewTable()
	c0 := table.MintRoot(TypeMemory, 0, 0, PermAll)
	c1, err := table.Derive(c0, PermRead)
	assert.NoError(t, err)

	table.GlobalRevoke()

	assert.False(t, table.Validate(c0))
	assert.False(t, table.Validate(c1))
}
