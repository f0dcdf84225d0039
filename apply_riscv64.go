// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && riscv64
// +build tamago,riscv64

package epmp

import (
	"github.com/usbarmory/tamago/riscv64"
	"github.com/usbarmory/tamago/soc/sifive/fu540"
)

// Apply pushes the shadow state to the FU540 PMP unit.
//
// The pmpaddr words are passed through pre-encoded, shifted back up to byte
// addresses, so that NAPOT mask bits are preserved.
func (s *State) Apply() (err error) {
	for i := 0; i < NumEntries; i++ {
		cfg := s.Cfg[i]

		var a int

		switch s.Mode(i) {
		case ModeOff:
			a = riscv64.PMP_A_OFF
		case ModeTOR:
			a = riscv64.PMP_A_TOR
		case ModeNA4:
			a = riscv64.PMP_A_NA4
		case ModeNAPOT:
			a = riscv64.PMP_A_NAPOT
		}

		r := cfg&uint8(permR) != 0
		w := cfg&uint8(permW) != 0
		x := cfg&uint8(permX) != 0
		l := cfg&uint8(permL) != 0

		if err = fu540.RV64.WritePMP(i, uint64(s.Addr[i])<<2, r, w, x, a, l); err != nil {
			return
		}
	}

	return
}
