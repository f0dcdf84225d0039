// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package epmp

import (
	"fmt"

	"github.com/usbarmory/tamago/bits"

	"github.com/rvboot/epmp/csr"
)

// mseccfg bit positions (Smepmp)
const (
	MSECCFG_MML  = 0
	MSECCFG_MMWP = 1
	MSECCFG_RLB  = 2
)

// Mseccfg represents the machine security configuration posture. The flags
// are sticky, set once during early boot, and only ever checked by this
// package.
type Mseccfg struct {
	// RLB is the Rule Locking Bypass flag.
	RLB bool
	// MMWP is the Machine Mode Whitelist Policy flag.
	MMWP bool
	// MML is the Machine Mode Lockdown flag.
	MML bool
}

// DefaultMseccfg is the security posture assumed by this package, locked
// entries remain rewritable and unmatched machine mode accesses are denied.
var DefaultMseccfg = Mseccfg{
	RLB:  true,
	MMWP: true,
}

// Encode returns the mseccfg register value for the posture.
func (m Mseccfg) Encode() (val uint32) {
	if m.MML {
		bits.Set(&val, MSECCFG_MML)
	}

	if m.MMWP {
		bits.Set(&val, MSECCFG_MMWP)
	}

	if m.RLB {
		bits.Set(&val, MSECCFG_RLB)
	}

	return
}

// DecodeMseccfg returns the posture held in an mseccfg register value.
func DecodeMseccfg(val uint32) Mseccfg {
	return Mseccfg{
		RLB:  bits.IsSet(&val, MSECCFG_RLB),
		MMWP: bits.IsSet(&val, MSECCFG_MMWP),
		MML:  bits.IsSet(&val, MSECCFG_MML),
	}
}

// cfgWord packs the four entry configuration bytes of pmpcfg register i.
func (s *State) cfgWord(i int) uint32 {
	return uint32(s.Cfg[4*i]) |
		uint32(s.Cfg[4*i+1])<<8 |
		uint32(s.Cfg[4*i+2])<<16 |
		uint32(s.Cfg[4*i+3])<<24
}

// Commit writes the shadow state to the hardware registers, address
// registers first so that no partially written configuration ever matches.
//
// Commit does not read back what the hardware accepted, callers needing that
// assurance follow up with Verify. The caller is responsible for ensuring no
// concurrent or interrupting code path touches the same registers.
func (s *State) Commit(rf csr.RegisterFile) (err error) {
	for i := 0; i < NumEntries; i++ {
		if err = rf.Write(csr.PMPADDR0+csr.Reg(i), s.Addr[i]); err != nil {
			return fmt.Errorf("could not write pmpaddr%d: %w", i, err)
		}
	}

	for i := 0; i < NumEntries/4; i++ {
		if err = rf.Write(csr.PMPCFG0+csr.Reg(i), s.cfgWord(i)); err != nil {
			return fmt.Errorf("could not write pmpcfg%d: %w", i, err)
		}
	}

	return
}

// Read returns a freshly populated shadow state holding the current hardware
// register values.
func Read(rf csr.RegisterFile) (s *State, err error) {
	s = &State{}

	for i := 0; i < NumEntries; i++ {
		if s.Addr[i], err = rf.Read(csr.PMPADDR0 + csr.Reg(i)); err != nil {
			return nil, fmt.Errorf("could not read pmpaddr%d: %w", i, err)
		}
	}

	for i := 0; i < NumEntries/4; i++ {
		val, err := rf.Read(csr.PMPCFG0 + csr.Reg(i))

		if err != nil {
			return nil, fmt.Errorf("could not read pmpcfg%d: %w", i, err)
		}

		for j := 0; j < 4; j++ {
			s.Cfg[4*i+j] = uint8(bits.Get(&val, 8*j, 0xff))
		}
	}

	return
}

// Verify reads the hardware configuration, address and machine security
// configuration registers and compares them field by field against the
// shadow state and the expected posture.
//
// A mismatch signals either that the hardware rejected a previously
// committed value (WARL normalization) or that the security posture was
// altered by other code, both security relevant failures.
func (s *State) Verify(rf csr.RegisterFile, sec Mseccfg) (err error) {
	var val uint32

	for i := 0; i < NumEntries; i++ {
		if val, err = rf.Read(csr.PMPADDR0 + csr.Reg(i)); err != nil {
			return fmt.Errorf("could not read pmpaddr%d: %w", i, err)
		}

		if val != s.Addr[i] {
			return fmt.Errorf("%w: pmpaddr%d is %#.8x, expected %#.8x", ErrMismatch, i, val, s.Addr[i])
		}
	}

	for i := 0; i < NumEntries/4; i++ {
		if val, err = rf.Read(csr.PMPCFG0 + csr.Reg(i)); err != nil {
			return fmt.Errorf("could not read pmpcfg%d: %w", i, err)
		}

		if expected := s.cfgWord(i); val != expected {
			return fmt.Errorf("%w: pmpcfg%d is %#.8x, expected %#.8x", ErrMismatch, i, val, expected)
		}
	}

	if val, err = rf.Read(csr.MSECCFG); err != nil {
		return fmt.Errorf("could not read mseccfg: %w", err)
	}

	if expected := sec.Encode(); val != expected {
		return fmt.Errorf("%w: mseccfg is %#.8x, expected %#.8x", ErrMismatch, val, expected)
	}

	if val, err = rf.Read(csr.MSECCFGH); err != nil {
		return fmt.Errorf("could not read mseccfgh: %w", err)
	}

	// high bits are hardwired to zero
	if val != 0 {
		return fmt.Errorf("%w: mseccfgh is %#.8x, expected 0", ErrMismatch, val)
	}

	return
}
