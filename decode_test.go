// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package epmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoundTrip(t *testing.T) {
	s := &State{}

	require.NoError(t, s.ConfigureTOR(0, Region{Start: 0x00, End: 0x10}, PermUnlockedMachineAllUserNone))
	require.NoError(t, s.ConfigureTOR(1, Region{Start: 0x10, End: 0x20}, PermUnlockedMachineAllUserAll))
	require.NoError(t, s.ConfigureOff(2, Region{}, PermUnlockedMachineAllUserNone))
	require.NoError(t, s.ConfigureTOR(3, Region{Start: 0x30, End: 0x40}, PermLockedMachineReadExecuteUserReadExecute))
	require.NoError(t, s.ConfigureNA4(4, Region{Start: 0x200, End: 0x204}, PermUnlockedMachineAllUserReadExecute))
	require.NoError(t, s.ConfigureNAPOT(5, Region{Start: 0x100, End: 0x110}, PermLockedMachineReadWriteUserReadWrite))
	require.NoError(t, s.ConfigureNAPOT(6, Region{Start: 0x1050, End: 0x1058}, PermUnlockedMachineAllUserNone))
	require.NoError(t, s.ConfigureOff(7, Region{Start: 0x300, End: 0x300}, PermLockedMachineNoneUserNone))

	for _, tc := range []struct {
		entry  int
		region Region
		perm   Perm
	}{
		{0, Region{Start: 0x00, End: 0x10}, PermUnlockedMachineAllUserNone},
		{1, Region{Start: 0x10, End: 0x20}, PermUnlockedMachineAllUserAll},
		{3, Region{Start: 0x30, End: 0x40}, PermLockedMachineReadExecuteUserReadExecute},
		{4, Region{Start: 0x200, End: 0x204}, PermUnlockedMachineAllUserReadExecute},
		{5, Region{Start: 0x100, End: 0x110}, PermLockedMachineReadWriteUserReadWrite},
		{6, Region{Start: 0x1050, End: 0x1058}, PermUnlockedMachineAllUserNone},
		{7, Region{Start: 0x300, End: 0x300}, PermLockedMachineNoneUserNone},
	} {
		region, perm, err := s.Decode(tc.entry)
		require.NoError(t, err, "entry %d", tc.entry)
		assert.Equal(t, tc.region, region, "entry %d", tc.entry)
		assert.Equal(t, tc.perm, perm, "entry %d", tc.entry)
	}

	// the boundary holder itself decodes as a zero length placeholder
	region, perm, err := s.Decode(2)
	require.NoError(t, err)
	assert.Equal(t, Region{Start: 0x30, End: 0x30}, region)
	assert.Equal(t, PermUnlockedMachineAllUserNone, perm)
}

func TestDecodeInconsistent(t *testing.T) {
	s := &State{}

	// a TOR base held by a NAPOT entry is unreachable through the
	// configuration paths
	s.Cfg[0] = uint8(ModeNAPOT)
	s.Addr[0] = 0x41
	s.Cfg[1] = uint8(ModeTOR)
	s.Addr[1] = 0x80

	_, _, err := s.Decode(1)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrBadArg)

	// reserved permission pattern (R=0 W=1)
	s = &State{}
	s.Cfg[0] = uint8(ModeOff) | 0x02

	_, _, err = s.Decode(0)
	require.Error(t, err)

	// reserved configuration bits
	s = &State{}
	s.Cfg[0] = 0x20

	_, _, err = s.Decode(0)
	require.Error(t, err)

	// NAPOT region exceeding the 32 bit address space
	s = &State{}
	s.Cfg[0] = uint8(ModeNAPOT)
	s.Addr[0] = 0xffffffff

	_, _, err = s.Decode(0)
	require.Error(t, err)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "OFF", ModeOff.String())
	assert.Equal(t, "TOR", ModeTOR.String())
	assert.Equal(t, "NA4", ModeNA4.String())
	assert.Equal(t, "NAPOT", ModeNAPOT.String())
	assert.Equal(t, "LRW-", PermLockedMachineReadWriteUserReadWrite.String())
	assert.Equal(t, "LRWX", PermLockedMachineAllUserAll.String())
	assert.Equal(t, "----", PermUnlockedMachineAllUserNone.String())
	assert.Equal(t, "-R-X", PermUnlockedMachineAllUserReadExecute.String())
}
