// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package epmp implements entry encoding, consistency checking and register
// synchronization for the RISC-V Enhanced Physical Memory Protection (ePMP)
// unit, as used by machine mode boot firmware.
//
// Specifications:
//   - PMP Enhancements for memory access and execution prevention on Machine
//     mode (Smepmp)
//   - RISC-V Privileged Specification
//
// Assumptions, set up by early boot code and verifiable through Verify:
//   - Rule Locking Bypass is enabled (mseccfg.RLB = 1)
//   - Machine Mode Whitelist Policy is enabled (mseccfg.MMWP = 1)
//   - Machine Mode Lockdown is disabled (mseccfg.MML = 0)
package epmp

import (
	"errors"
)

const (
	// NumEntries is the number of PMP entries implemented by the
	// reference hardware.
	NumEntries = 16

	// Granularity is the PMP address matching granularity exponent (G).
	// The reference hardware implements G=0, making NA4 entries
	// available.
	Granularity = 0
)

var (
	// ErrBadArg is returned on an out of range entry index or a
	// structurally invalid input.
	ErrBadArg = errors.New("invalid argument")

	// ErrBadRegion is returned when a region size or alignment is
	// incompatible with the requested addressing mode.
	ErrBadRegion = errors.New("invalid region for addressing mode")

	// ErrConflict is returned when an entry update would interfere with a
	// pre-existing entry, either by moving the base of a TOR entry or by
	// using an address both as a NAPOT/NA4 match and as a TOR boundary.
	ErrConflict = errors.New("conflict with pre-existing entry")

	// ErrMismatch is returned by Verify when the hardware registers
	// diverge from the expected state or security posture.
	ErrMismatch = errors.New("register state mismatch")
)

// Mode represents a pmpcfg address matching mode (A field).
type Mode uint8

const (
	ModeOff   Mode = 0x0 << 3
	ModeTOR   Mode = 0x1 << 3
	ModeNA4   Mode = 0x2 << 3
	ModeNAPOT Mode = 0x3 << 3
)

// pmpcfg entry byte layout
const (
	modeMask = 0x3 << 3
	rsvdMask = 0x3 << 5
)

// Perm represents pmpcfg entry permissions (L, R, W, X fields).
//
// Unlocked permissions can always be modified in machine mode, locked
// permissions only while mseccfg.RLB is set. With mseccfg.MML unset the
// combination R=0 W=1 is reserved, no such constant is therefore defined.
//
// The machine and user mode access rights granted by each value are explicit
// in its name, as they would differ under mseccfg.MML which is out of scope
// for this package.
type Perm uint8

const (
	permR Perm = 1 << 0
	permW Perm = 1 << 1
	permX Perm = 1 << 2
	permL Perm = 1 << 7
)

const (
	PermUnlockedMachineAllUserNone        Perm = 0
	PermUnlockedMachineAllUserExecute          = permX
	PermUnlockedMachineAllUserRead             = permR
	PermUnlockedMachineAllUserReadExecute      = permR | permX
	PermUnlockedMachineAllUserReadWrite        = permR | permW
	PermUnlockedMachineAllUserAll              = permR | permW | permX

	PermLockedMachineNoneUserNone               = permL
	PermLockedMachineExecuteUserExecute         = permL | permX
	PermLockedMachineReadUserRead               = permL | permR
	PermLockedMachineReadExecuteUserReadExecute = permL | permR | permX
	PermLockedMachineReadWriteUserReadWrite     = permL | permR | permW
	PermLockedMachineAllUserAll                 = permL | permR | permW | permX
)

// Region represents a byte addressed memory region [Start, End).
type Region struct {
	Start uint32
	End   uint32
}

// Size returns the region length in bytes.
func (r Region) Size() uint32 {
	return r.End - r.Start
}

// State is an in-memory copy of the complete ePMP register state.
//
// A State is populated through the Configure functions and pushed to the
// hardware with Commit, after which it is bit-for-bit identical to the
// register values, a property that Verify confirms before the configuration
// is trusted.
type State struct {
	// Cfg holds the pmpcfg configuration byte of each entry.
	Cfg [NumEntries]uint8
	// Addr holds the pmpaddr address word of each entry.
	Addr [NumEntries]uint32
}

// Mode returns the address matching mode of an entry.
func (s *State) Mode(entry int) Mode {
	return Mode(s.Cfg[entry]) & modeMask
}

// torBase reports whether entry currently holds the base boundary of a TOR
// entry immediately above it.
func (s *State) torBase(entry int) bool {
	return entry+1 < NumEntries && s.Mode(entry+1) == ModeTOR
}
