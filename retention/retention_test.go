// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = 0x40500000

type fakeMMIO struct {
	regs map[uint32]uint32
}

func (m *fakeMMIO) Read32(addr uint32) uint32 {
	return m.regs[addr]
}

func (m *fakeMMIO) Write32(addr uint32, val uint32) {
	m.regs[addr] = val
}

func TestScramble(t *testing.T) {
	mmio := &fakeMMIO{
		regs: map[uint32]uint32{
			testBase + CTRL_REGWEN: 1,
		},
	}

	c := &Ctrl{
		Base: testBase,
		MMIO: mmio,
	}

	require.NoError(t, c.Scramble())
	assert.Equal(t, uint32(0b11), mmio.regs[testBase+CTRL])
}

func TestScrambleLocked(t *testing.T) {
	mmio := &fakeMMIO{
		regs: make(map[uint32]uint32),
	}

	c := &Ctrl{
		Base: testBase,
		MMIO: mmio,
	}

	require.ErrorIs(t, c.Scramble(), ErrLocked)
	assert.Equal(t, uint32(0), mmio.regs[testBase+CTRL])
}
