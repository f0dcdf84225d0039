// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package mem holds the memory layout of the reference RV32 boot system.
package mem

const (
	// Boot ROM
	ROMStart = 0x00008000
	ROMSize  = 0x00008000 // 32kB

	// Main SRAM
	RAMStart = 0x10000000
	RAMSize  = 0x00020000 // 128kB

	// Embedded flash
	FlashStart = 0x20000000
	FlashSize  = 0x00100000 // 1MB

	// Debug status window, used by verification environments
	DebugStatusStart = 0x30000000

	// Memory mapped peripherals
	MMIOStart = 0x40000000
	MMIOSize  = 0x10000000 // 256MB

	// Retention SRAM controller
	RetSRAMCtrlBase = 0x40500000
)
