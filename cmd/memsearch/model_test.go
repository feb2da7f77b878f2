package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetSearchFindsEveryByte(t *testing.T) {
	m := New()
	m.resetSearch()
	require.True(t, m.started)
	assert.NotEmpty(t, m.rows)
}

func TestStepComparisonRequiresStartedSearch(t *testing.T) {
	m := New()
	m.stepComparison(0, 0, nil)
	assert.Contains(t, m.statusMsg, "start a search")
}

func TestGuestStepMutatesMemory(t *testing.T) {
	m := New()
	m.resetSearch()

	before := m.guest.mem[0x10]
	m.guest.Step()
	assert.NotEqual(t, before, m.guest.mem[0x10])
}
