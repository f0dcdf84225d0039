// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package epmp

import (
	"fmt"
	"math/bits"
)

// decodePerm recovers the permission value from a pmpcfg byte.
//
// A byte read back from a foreign register file may carry patterns this
// package never produces: non-zero reserved bits, or the R=0 W=1 combination
// that is reserved while mseccfg.MML is unset. Those decode to an error
// rather than to a fabricated permission.
func decodePerm(cfg uint8) (p Perm, err error) {
	if cfg&rsvdMask != 0 {
		return 0, fmt.Errorf("reserved pmpcfg bits set in %#.2x", cfg)
	}

	p = Perm(cfg) &^ Perm(modeMask)

	if p&permW != 0 && p&permR == 0 {
		return 0, fmt.Errorf("reserved permission pattern in %#.2x", cfg)
	}

	return
}

// Decode recovers the effective region and permission of an entry.
//
// The preceding entry is consulted when entry is encoded using TOR, it must
// be either OFF or TOR for the base boundary to be meaningful.
func (s *State) Decode(entry int) (r Region, p Perm, err error) {
	if err = checkEntry(entry); err != nil {
		return
	}

	if p, err = decodePerm(s.Cfg[entry]); err != nil {
		return
	}

	addr := s.Addr[entry]

	switch s.Mode(entry) {
	case ModeOff:
		r.Start = addr << 2
		r.End = r.Start
	case ModeTOR:
		if entry > 0 {
			switch s.Mode(entry - 1) {
			case ModeOff, ModeTOR:
				r.Start = s.Addr[entry-1] << 2
			default:
				return r, p, fmt.Errorf("entry %d TOR base is held by a %#.2x entry", entry, s.Cfg[entry-1])
			}
		}

		r.End = addr << 2
	case ModeNA4:
		r.Start = addr << 2
		r.End = r.Start + 4
	case ModeNAPOT:
		k := bits.TrailingZeros32(^addr)

		size := uint64(8) << k
		start := uint64(addr&^(1<<k-1)) << 2

		if start+size > 1<<32 {
			return r, p, fmt.Errorf("entry %d NAPOT region exceeds the address space", entry)
		}

		r.Start = uint32(start)
		r.End = uint32(start + size)
	}

	return
}
