// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package csr

import (
	"fmt"
)

// pmpcfg bits 5 and 6 of each entry byte are reserved and read as zero.
const cfgRsvdMask = 0x60606060

// mseccfg implements only the MML, MMWP and RLB bits.
const mseccfgMask = 0x7

// Sim is a software model of the ePMP register file.
//
// Writes are normalized the way the WARL discipline allows the hardware to,
// reserved pmpcfg bits and unimplemented mseccfg bits read back as zero and
// mseccfgh is hardwired to zero. Poke stores a raw register value bypassing
// normalization, to model posture changes or faults injected behind the
// firmware's back.
type Sim struct {
	regs map[Reg]uint32
}

// NewSim returns a simulated register file with all registers present and
// zeroed.
func NewSim() *Sim {
	regs := make(map[Reg]uint32)

	for r := PMPCFG0; r <= PMPCFG3; r++ {
		regs[r] = 0
	}

	for r := PMPADDR0; r <= PMPADDR15; r++ {
		regs[r] = 0
	}

	regs[MSECCFG] = 0
	regs[MSECCFGH] = 0

	return &Sim{
		regs: regs,
	}
}

// Read returns the value of a simulated register.
func (s *Sim) Read(reg Reg) (val uint32, err error) {
	val, ok := s.regs[reg]

	if !ok {
		return 0, fmt.Errorf("unknown CSR %#x", uint16(reg))
	}

	return
}

// Write updates a simulated register, applying WARL normalization.
func (s *Sim) Write(reg Reg, val uint32) (err error) {
	if _, ok := s.regs[reg]; !ok {
		return fmt.Errorf("unknown CSR %#x", uint16(reg))
	}

	switch {
	case reg >= PMPCFG0 && reg <= PMPCFG3:
		val &= ^uint32(cfgRsvdMask)
	case reg == MSECCFG:
		val &= mseccfgMask
	case reg == MSECCFGH:
		val = 0
	}

	s.regs[reg] = val

	return
}

// Poke stores a raw register value, bypassing WARL normalization.
func (s *Sim) Poke(reg Reg, val uint32) {
	s.regs[reg] = val
}

// Peek returns a raw register value, zero if the register does not exist.
func (s *Sim) Peek(reg Reg) uint32 {
	return s.regs[reg]
}
