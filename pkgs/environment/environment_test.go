package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrowIncrementsDepth(t *testing.T) {
	t.Parallel()
	root := Global()
	child := root.Narrow()
	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 1, child.Depth())
}

func TestInsertAndGetByOffset(t *testing.T) {
	t.Parallel()
	root := Global()
	root.Insert("a", 1)
	child := root.Narrow()

	v, ok := child.GetByOffset("a", 1)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = child.GetByOffset("a", 0)
	assert.False(t, ok, "offset 0 only looks in the current frame")
}

func TestAssignWalksOutward(t *testing.T) {
	t.Parallel()
	root := Global()
	root.Insert("a", 1)
	child := root.Narrow()

	ok := child.Assign("a", 2)
	require.True(t, ok)

	v, _ := root.GetByOffset("a", 0)
	assert.Equal(t, 2, v, "assign mutates the frame that actually owns the binding")
}

func TestAssignToUndeclaredFails(t *testing.T) {
	t.Parallel()
	root := Global()
	ok := root.Assign("missing", 1)
	assert.False(t, ok)
}

func TestShadowingInsertDoesNotAffectParent(t *testing.T) {
	t.Parallel()
	root := Global()
	root.Insert("a", "outer")
	child := root.Narrow()
	child.Insert("a", "inner")

	v, _ := child.GetByOffset("a", 0)
	assert.Equal(t, "inner", v)

	v, _ = root.GetByOffset("a", 0)
	assert.Equal(t, "outer", v)
}

func TestOffsetCountsFramesDuringParse(t *testing.T) {
	t.Parallel()
	root := Global()
	root.Insert("a", nil)
	child := root.Narrow().Narrow()

	n, ok := child.Offset("a")
	require.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestStdIsChildOfFreshGlobal(t *testing.T) {
	t.Parallel()
	std := Std()
	assert.Equal(t, 1, std.Depth())
	assert.NotNil(t, std.Parent())
	assert.Equal(t, 0, std.Parent().Depth())
}
