// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package epmp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvboot/epmp/csr"
)

func testState(t *testing.T) (s *State) {
	s = &State{}

	require.NoError(t, s.ConfigureTOR(0, Region{Start: 0x00000000, End: 0x00010000}, PermLockedMachineReadExecuteUserReadExecute))
	require.NoError(t, s.ConfigureNAPOT(1, Region{Start: 0x10000000, End: 0x10020000}, PermUnlockedMachineAllUserNone))
	require.NoError(t, s.ConfigureOff(2, Region{}, PermUnlockedMachineAllUserNone))
	require.NoError(t, s.ConfigureTOR(3, Region{Start: 0x40000000, End: 0x50000000}, PermUnlockedMachineAllUserNone))
	require.NoError(t, s.ConfigureNA4(4, Region{Start: 0x30000000, End: 0x30000004}, PermLockedMachineReadWriteUserReadWrite))

	return
}

func testSim() *csr.Sim {
	sim := csr.NewSim()
	sim.Poke(csr.MSECCFG, DefaultMseccfg.Encode())

	return sim
}

func TestCommitVerify(t *testing.T) {
	sim := testSim()
	s := testState(t)

	require.NoError(t, s.Commit(sim))
	require.NoError(t, s.Verify(sim, DefaultMseccfg))

	assert.Equal(t, s.Addr[3], sim.Peek(csr.PMPADDR3))
	assert.Equal(t, s.cfgWord(0), sim.Peek(csr.PMPCFG0))
}

func TestVerifyDrift(t *testing.T) {
	sim := testSim()
	s := testState(t)

	require.NoError(t, s.Commit(sim))

	// address register altered behind the firmware's back
	sim.Poke(csr.PMPADDR3, sim.Peek(csr.PMPADDR3)^0x10)
	require.ErrorIs(t, s.Verify(sim, DefaultMseccfg), ErrMismatch)

	require.NoError(t, s.Commit(sim))
	require.NoError(t, s.Verify(sim, DefaultMseccfg))

	// configuration register altered
	sim.Poke(csr.PMPCFG1, sim.Peek(csr.PMPCFG1)|0x01)
	require.ErrorIs(t, s.Verify(sim, DefaultMseccfg), ErrMismatch)

	require.NoError(t, s.Commit(sim))

	// rule locking bypass dropped
	sim.Poke(csr.MSECCFG, Mseccfg{MMWP: true}.Encode())
	require.ErrorIs(t, s.Verify(sim, DefaultMseccfg), ErrMismatch)

	sim.Poke(csr.MSECCFG, DefaultMseccfg.Encode())
	require.NoError(t, s.Verify(sim, DefaultMseccfg))

	// high half is expected to be hardwired to zero
	sim.Poke(csr.MSECCFGH, 1)
	require.ErrorIs(t, s.Verify(sim, DefaultMseccfg), ErrMismatch)
}

func TestReadRoundTrip(t *testing.T) {
	sim := testSim()
	s := testState(t)

	require.NoError(t, s.Commit(sim))

	got, err := Read(sim)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(*s, *got))
}

type failRF struct{}

func (failRF) Read(_ csr.Reg) (uint32, error) {
	return 0, errors.New("no register access")
}

func (failRF) Write(_ csr.Reg, _ uint32) error {
	return errors.New("no register access")
}

func TestRegisterAccessFailure(t *testing.T) {
	s := testState(t)

	err := s.Commit(failRF{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMismatch)

	_, err = Read(failRF{})
	require.Error(t, err)

	err = s.Verify(failRF{}, DefaultMseccfg)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMismatch)
}

func TestMseccfg(t *testing.T) {
	assert.Equal(t, uint32(0b110), DefaultMseccfg.Encode())
	assert.Equal(t, DefaultMseccfg, DecodeMseccfg(0b110))

	for val := uint32(0); val < 8; val++ {
		assert.Equal(t, val, DecodeMseccfg(val).Encode())
	}
}

func TestUnlockDebugStatus(t *testing.T) {
	sim := testSim()
	s := &State{}

	require.NoError(t, UnlockDebugStatus(s, sim, 0x30000000, DefaultMseccfg))

	assert.Equal(t, uint8(0x93), s.Cfg[DebugStatusEntry])
	assert.Equal(t, uint32(0x0c000000), s.Addr[DebugStatusEntry])
	assert.Equal(t, uint32(0x0c000000), sim.Peek(csr.PMPADDR6))

	require.ErrorIs(t, UnlockDebugStatus(s, sim, 0x30000002, DefaultMseccfg), ErrBadArg)

	// an unexpected posture fails verification after commit
	sim.Poke(csr.MSECCFG, 0)
	require.ErrorIs(t, UnlockDebugStatus(s, sim, 0x30000000, DefaultMseccfg), ErrMismatch)
}
