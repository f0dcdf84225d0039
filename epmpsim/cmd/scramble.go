// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"golang.org/x/term"

	"github.com/rvboot/epmp/mem"
	"github.com/rvboot/epmp/retention"
)

func init() {
	Add(Cmd{
		Name: "scramble",
		Help: "request retention SRAM scrambling",
		Fn:   scrambleCmd,
	})
}

// simMMIO models the retention SRAM controller registers, starting with the
// control register write enable set.
type simMMIO struct {
	regs map[uint32]uint32
}

func (m *simMMIO) Read32(addr uint32) uint32 {
	return m.regs[addr]
}

func (m *simMMIO) Write32(addr uint32, val uint32) {
	m.regs[addr] = val
}

var retCtrl = &retention.Ctrl{
	Base: mem.RetSRAMCtrlBase,
	MMIO: &simMMIO{
		regs: map[uint32]uint32{
			mem.RetSRAMCtrlBase + retention.CTRL_REGWEN: 1,
		},
	},
}

func scrambleCmd(_ *term.Terminal, _ []string) (res string, err error) {
	if err = retCtrl.Scramble(); err != nil {
		return
	}

	return "retention SRAM scrambling requested", nil
}
