// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"golang.org/x/term"

	"github.com/rvboot/epmp"
)

func init() {
	Add(Cmd{
		Name: "commit",
		Help: "write shadow state to the register file",
		Fn:   commitCmd,
	})

	Add(Cmd{
		Name: "read",
		Help: "load shadow state from the register file",
		Fn:   readCmd,
	})

	Add(Cmd{
		Name: "verify",
		Help: "check register file against shadow state and posture",
		Fn:   verifyCmd,
	})
}

func commitCmd(_ *term.Terminal, _ []string) (res string, err error) {
	if err = state.Commit(regs); err != nil {
		return
	}

	return "committed", nil
}

func readCmd(_ *term.Terminal, _ []string) (res string, err error) {
	s, err := epmp.Read(regs)

	if err != nil {
		return
	}

	state = *s

	return "shadow state loaded from registers", nil
}

func verifyCmd(_ *term.Terminal, _ []string) (res string, err error) {
	if err = state.Verify(regs, epmp.DefaultMseccfg); err != nil {
		return
	}

	return "verify ok", nil
}
