package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDefaults(t *testing.T) {
	assert.Equal(t, DefaultOptions, Resolve())
}

func TestResolve(t *testing.T) {
	got := Resolve(WithMaxErrors(1), WithSpace(false), WithAvoidCapitalized())
	assert.Equal(t, 1, got.MaxErrors)
	assert.False(t, got.AllowSpace)
	assert.True(t, got.AvoidCapitalized)
	assert.True(t, got.Substitution)
}

func TestWithoutEdits(t *testing.T) {
	got := Resolve(WithoutEdits())
	assert.False(t, got.Substitution)
	assert.False(t, got.Deletion)
	assert.False(t, got.Insertion)
	assert.True(t, got.AllowSpace)
}

func TestFromOptions(t *testing.T) {
	conf := CorrectOptions{MaxErrors: 5, Deletion: true}
	assert.Equal(t, conf, Resolve(WithSpace(true), FromOptions(conf)))
	assert.Equal(t, DefaultOptions, Resolve(FromOptions(conf), FromOptions(DefaultOptions)))
}
