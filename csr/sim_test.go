// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package csr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimUnknownCSR(t *testing.T) {
	sim := NewSim()

	_, err := sim.Read(Reg(0x100))
	require.Error(t, err)

	require.Error(t, sim.Write(Reg(0x100), 0))
}

func TestSimWARL(t *testing.T) {
	sim := NewSim()

	// reserved pmpcfg bits read back as zero
	require.NoError(t, sim.Write(PMPCFG0, 0xffffffff))

	val, err := sim.Read(PMPCFG0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x9f9f9f9f), val)

	// only MML, MMWP and RLB are implemented
	require.NoError(t, sim.Write(MSECCFG, 0xff))

	val, err = sim.Read(MSECCFG)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x7), val)

	// mseccfgh is hardwired to zero
	require.NoError(t, sim.Write(MSECCFGH, 0xffffffff))

	val, err = sim.Read(MSECCFGH)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), val)
}

func TestSimPoke(t *testing.T) {
	sim := NewSim()

	// Poke bypasses WARL normalization
	sim.Poke(MSECCFGH, 5)
	assert.Equal(t, uint32(5), sim.Peek(MSECCFGH))

	val, err := sim.Read(MSECCFGH)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), val)

	addrs := []Reg{PMPADDR0, PMPADDR7, PMPADDR15}

	for _, reg := range addrs {
		require.NoError(t, sim.Write(reg, 0xdeadbeef))
		assert.Equal(t, uint32(0xdeadbeef), sim.Peek(reg))
	}
}
