// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package retention drives the retention SRAM controller scrambling trigger
// used by boot firmware to wipe retained state.
package retention

import (
	"errors"

	"github.com/usbarmory/tamago/bits"
)

// SRAM controller registers
const (
	CTRL_REGWEN    = 0x10
	CTRL_REGWEN_EN = 0

	CTRL               = 0x14
	CTRL_RENEW_SCR_KEY = 0
	CTRL_INIT          = 1
)

// ErrLocked is returned when the controller register write enable has been
// cleared, locking out further scrambling requests.
var ErrLocked = errors.New("retention SRAM control is locked")

// MMIO is a 32-bit memory mapped register access primitive.
type MMIO interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, val uint32)
}

// Ctrl represents a retention SRAM controller instance.
type Ctrl struct {
	// Base is the controller base address.
	Base uint32
	// MMIO is the register access backend.
	MMIO MMIO
}

// Scramble requests renewal of the memory scrambling key along with
// initialization to random values, wiping all retained data.
//
// The scrambling operation takes time, accesses to the retention SRAM stall
// until it completes.
func (c *Ctrl) Scramble() (err error) {
	regwen := c.MMIO.Read32(c.Base + CTRL_REGWEN)

	if !bits.IsSet(&regwen, CTRL_REGWEN_EN) {
		return ErrLocked
	}

	var ctrl uint32
	bits.Set(&ctrl, CTRL_RENEW_SCR_KEY)
	bits.Set(&ctrl, CTRL_INIT)

	c.MMIO.Write32(c.Base+CTRL, ctrl)

	return
}
