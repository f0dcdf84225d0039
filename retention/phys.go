// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package retention

import (
	"github.com/usbarmory/tamago/reg"
)

// Phys accesses memory mapped registers through physical memory, for use
// when running on the target hardware.
type Phys struct{}

func (Phys) Read32(addr uint32) uint32 {
	return reg.Read(addr)
}

func (Phys) Write32(addr uint32, val uint32) {
	reg.Write(addr, val)
}
