// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package csr provides the control and status register (CSR) numbers of the
// RISC-V physical memory protection register files, and the access interface
// the epmp package synchronizes against.
package csr

// Reg is a CSR number (RISC-V Privileged Specification).
type Reg uint16

// PMP configuration registers, 4 entry configuration bytes each.
const (
	PMPCFG0 Reg = 0x3a0 + iota
	PMPCFG1
	PMPCFG2
	PMPCFG3
)

// PMP address registers, one per entry.
const (
	PMPADDR0 Reg = 0x3b0 + iota
	PMPADDR1
	PMPADDR2
	PMPADDR3
	PMPADDR4
	PMPADDR5
	PMPADDR6
	PMPADDR7
	PMPADDR8
	PMPADDR9
	PMPADDR10
	PMPADDR11
	PMPADDR12
	PMPADDR13
	PMPADDR14
	PMPADDR15
)

// Machine security configuration registers (Smepmp).
const (
	MSECCFG  Reg = 0x747
	MSECCFGH Reg = 0x757
)

// RegisterFile is a 32-bit CSR access primitive.
//
// Each access is expected to complete synchronously and atomically for the
// addressed register. The PMP registers follow the WARL (write any, read
// legal) discipline, a written value may therefore be silently normalized or
// rejected by the hardware and only a read back confirms its effect.
type RegisterFile interface {
	Read(reg Reg) (uint32, error)
	Write(reg Reg, val uint32) error
}
