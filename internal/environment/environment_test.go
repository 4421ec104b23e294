package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loxwalk/internal/environment"
)

func TestDefineAndGetInSameFrame(t *testing.T) {
	env := environment.New(nil)
	env.Define("a", 1.0)

	v, ok := env.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestGetWalksEnclosingChain(t *testing.T) {
	global := environment.New(nil)
	global.Define("a", "global")

	child := environment.New(global)
	grandchild := environment.New(child)

	v, ok := grandchild.Get("a")
	require.True(t, ok)
	assert.Equal(t, "global", v)
}

func TestGetMissingNameFails(t *testing.T) {
	env := environment.New(nil)
	_, ok := env.Get("missing")
	assert.False(t, ok)
}

func TestDefineShadowsEnclosingFrame(t *testing.T) {
	global := environment.New(nil)
	global.Define("a", "outer")

	child := environment.New(global)
	child.Define("a", "inner")

	v, _ := child.Get("a")
	assert.Equal(t, "inner", v)

	v, _ = global.Get("a")
	assert.Equal(t, "outer", v)
}

func TestAssignMutatesDeclaringFrame(t *testing.T) {
	global := environment.New(nil)
	global.Define("a", 1.0)
	child := environment.New(global)

	ok := child.Assign("a", 2.0)
	require.True(t, ok)

	v, _ := global.Get("a")
	assert.Equal(t, 2.0, v)
}

func TestAssignToUndeclaredNameFails(t *testing.T) {
	env := environment.New(nil)
	ok := env.Assign("never-declared", 1.0)
	assert.False(t, ok)
}

func TestGetAtAndAssignAtUseResolvedDistance(t *testing.T) {
	global := environment.New(nil)
	global.Define("a", "global-value")

	child := environment.New(global)
	child.Define("a", "child-value")

	grandchild := environment.New(child)

	assert.Equal(t, "child-value", grandchild.GetAt(1, "a"))
	assert.Equal(t, "global-value", grandchild.GetAt(2, "a"))

	grandchild.AssignAt(1, "a", "rewritten")
	v, _ := child.Get("a")
	assert.Equal(t, "rewritten", v)
}
