// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/rvboot/epmp"
	"github.com/rvboot/epmp/csr"
)

func testInit() {
	sim := csr.NewSim()
	sim.Poke(csr.MSECCFG, epmp.DefaultMseccfg.Encode())

	Init(sim)
}

func TestBootPolicy(t *testing.T) {
	s := epmp.State{}
	require.NoError(t, configureBootPolicy(&s))

	// boot ROM, locked NAPOT with read and execute permissions
	assert.Equal(t, uint8(0x9d), s.Cfg[0])
	assert.Equal(t, uint32(0x2fff), s.Addr[0])

	// every configured entry must decode consistently
	for i := 0; i < 6; i++ {
		_, _, err := s.Decode(i)
		require.NoError(t, err, "entry %d", i)
	}
}

func TestPolicyCommand(t *testing.T) {
	testInit()

	console := term.NewTerminal(&bytes.Buffer{}, "")

	require.NoError(t, Handler(console, "policy"))

	// the debug status window is part of the committed state
	assert.Equal(t, uint8(0x93), state.Cfg[epmp.DebugStatusEntry])
	assert.Equal(t, uint32(0x0c000000), regs.Peek(csr.PMPADDR6))

	require.NoError(t, Handler(console, "verify"))

	// raw register writes simulate drift behind the firmware's back
	require.NoError(t, Handler(console, "csrw 3b0 deadbeef"))
	require.ErrorIs(t, Handler(console, "verify"), epmp.ErrMismatch)

	require.NoError(t, Handler(console, "commit"))
	require.NoError(t, Handler(console, "verify"))

	require.Error(t, Handler(console, "bogus"))
}
