// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package epmp

import (
	"fmt"
	"math/bits"
)

func checkEntry(entry int) (err error) {
	if entry < 0 || entry >= NumEntries {
		return fmt.Errorf("%w: entry %d out of range", ErrBadArg, entry)
	}

	return
}

func checkRegion(r Region) (err error) {
	if r.End < r.Start {
		return fmt.Errorf("%w: region end %#x precedes start %#x", ErrBadArg, r.End, r.Start)
	}

	return
}

// granule returns the minimum address alignment for granularity exponent g.
func granule(g uint32) uint32 {
	return 1 << (2 + g)
}

// matchClaim returns the index of an NA4 or NAPOT entry whose pmpaddr equals
// word, ignoring the entries being reconfigured.
func (s *State) matchClaim(word uint32, skip ...int) (int, bool) {
	for i := 0; i < NumEntries; i++ {
		if s.Addr[i] != word {
			continue
		}

		if mode := s.Mode(i); mode != ModeNA4 && mode != ModeNAPOT {
			continue
		}

		skipped := false

		for _, j := range skip {
			if i == j {
				skipped = true
			}
		}

		if !skipped {
			return i, true
		}
	}

	return 0, false
}

// torClaim returns the index of an entry claiming word as a TOR range
// boundary, either as the top of a TOR entry or as the base held for the TOR
// entry immediately above, ignoring the entries being reconfigured.
func (s *State) torClaim(word uint32, skip ...int) (int, bool) {
	for i := 0; i < NumEntries; i++ {
		if s.Addr[i] != word {
			continue
		}

		if s.Mode(i) != ModeTOR && !s.torBase(i) {
			continue
		}

		skipped := false

		for _, j := range skip {
			if i == j {
				skipped = true
			}
		}

		if !skipped {
			return i, true
		}
	}

	return 0, false
}

// ConfigureOff disables address matching for entry.
//
// The region must have zero length, its start address is retained in pmpaddr
// as a placeholder, typically to hold the base boundary of a future TOR
// entry. Permissions are written as provided.
//
// The state is unchanged on error.
func (s *State) ConfigureOff(entry int, r Region, p Perm) (err error) {
	if err = checkEntry(entry); err != nil {
		return
	}

	if err = checkRegion(r); err != nil {
		return
	}

	if r.Start != r.End {
		return fmt.Errorf("%w: OFF requires a zero length region", ErrBadRegion)
	}

	if r.Start%4 != 0 {
		return fmt.Errorf("%w: address %#x is not 4 byte aligned", ErrBadRegion, r.Start)
	}

	addr := r.Start >> 2

	if s.torBase(entry) && s.Addr[entry] != addr {
		return fmt.Errorf("%w: entry %d holds the base of a TOR entry", ErrConflict, entry)
	}

	s.Cfg[entry] = uint8(ModeOff) | uint8(p)
	s.Addr[entry] = addr

	return
}

// ConfigureTOR configures Top Of Range (TOR) address matching for entry,
// covering the region [r.Start, r.End).
//
// The region end address is encoded into the pmpaddr for entry. The region
// start address is held by the preceding entry: if that entry is OFF its
// pmpaddr is overwritten (its mode is preserved, it is a boundary holder and
// not a matching rule), if it is already TOR its pmpaddr must equal the
// encoded start address. Entry 0 has no preceding entry and its start address
// must be 0.
//
// The base boundary of an established TOR entry is never moved, chains must
// be torn down and rebuilt from the bottom instead.
//
// The state is unchanged on error.
func (s *State) ConfigureTOR(entry int, r Region, p Perm) (err error) {
	if err = checkEntry(entry); err != nil {
		return
	}

	if err = checkRegion(r); err != nil {
		return
	}

	if g := granule(Granularity); r.Start%g != 0 || r.End%g != 0 {
		return fmt.Errorf("%w: region %#x-%#x is not aligned to %d bytes", ErrBadRegion, r.Start, r.End, g)
	}

	base := r.Start >> 2
	top := r.End >> 2

	overwritePrev := false

	if entry == 0 {
		if r.Start != 0 {
			return fmt.Errorf("%w: entry 0 TOR start address must be 0", ErrBadArg)
		}
	} else {
		switch s.Mode(entry - 1) {
		case ModeOff:
			overwritePrev = true
		case ModeTOR:
			if s.Addr[entry-1] != base {
				return fmt.Errorf("%w: start %#x does not match the base held by TOR entry %d", ErrConflict, r.Start, entry-1)
			}
		default:
			return fmt.Errorf("%w: entry %d cannot hold a TOR base", ErrConflict, entry-1)
		}
	}

	if s.torBase(entry) && s.Addr[entry] != top {
		return fmt.Errorf("%w: entry %d holds the base of a TOR entry", ErrConflict, entry)
	}

	skip := []int{entry}

	if entry > 0 {
		skip = append(skip, entry-1)
	}

	if i, ok := s.matchClaim(base, skip...); ok {
		return fmt.Errorf("%w: start %#x is matched by entry %d", ErrConflict, r.Start, i)
	}

	if i, ok := s.matchClaim(top, skip...); ok {
		return fmt.Errorf("%w: end %#x is matched by entry %d", ErrConflict, r.End, i)
	}

	if overwritePrev {
		s.Addr[entry-1] = base
	}

	s.Cfg[entry] = uint8(ModeTOR) | uint8(p)
	s.Addr[entry] = top

	return
}

// ConfigureNA4 configures Naturally Aligned four-byte (NA4) address matching
// for entry. The region length must be exactly four bytes.
//
// NA4 is unavailable on hardware with a granularity exponent greater than
// zero, in which case ErrBadRegion is always returned.
//
// The state is unchanged on error.
func (s *State) ConfigureNA4(entry int, r Region, p Perm) error {
	return s.configureNA4(entry, r, p, Granularity)
}

func (s *State) configureNA4(entry int, r Region, p Perm, g uint32) (err error) {
	if err = checkEntry(entry); err != nil {
		return
	}

	if err = checkRegion(r); err != nil {
		return
	}

	if g > 0 {
		return fmt.Errorf("%w: NA4 is not available with granularity %d", ErrBadRegion, g)
	}

	if r.Size() != 4 {
		return fmt.Errorf("%w: NA4 requires a 4 byte region", ErrBadRegion)
	}

	if r.Start%4 != 0 {
		return fmt.Errorf("%w: address %#x is not 4 byte aligned", ErrBadRegion, r.Start)
	}

	addr := r.Start >> 2

	if s.torBase(entry) {
		return fmt.Errorf("%w: entry %d holds the base of a TOR entry", ErrConflict, entry)
	}

	if i, ok := s.torClaim(addr, entry); ok {
		return fmt.Errorf("%w: address %#x is a TOR boundary of entry %d", ErrConflict, r.Start, i)
	}

	s.Cfg[entry] = uint8(ModeNA4) | uint8(p)
	s.Addr[entry] = addr

	return
}

// ConfigureNAPOT configures Naturally Aligned Power-Of-Two (NAPOT) address
// matching for entry.
//
// The region length must be a power of two of at least 8 bytes and the region
// start address must be aligned to it. With a granularity exponent greater
// than zero the region must additionally be aligned to the granule size.
//
// The state is unchanged on error.
func (s *State) ConfigureNAPOT(entry int, r Region, p Perm) error {
	return s.configureNAPOT(entry, r, p, Granularity)
}

func (s *State) configureNAPOT(entry int, r Region, p Perm, g uint32) (err error) {
	if err = checkEntry(entry); err != nil {
		return
	}

	if err = checkRegion(r); err != nil {
		return
	}

	size := r.Size()

	if size < 8 || size&(size-1) != 0 {
		return fmt.Errorf("%w: NAPOT size %#x is not a power of two >= 8", ErrBadRegion, size)
	}

	if r.Start%size != 0 {
		return fmt.Errorf("%w: address %#x is not aligned to size %#x", ErrBadRegion, r.Start, size)
	}

	if g > 0 {
		if gr := granule(g); r.Start%gr != 0 || r.End%gr != 0 {
			return fmt.Errorf("%w: region %#x-%#x is not aligned to %d bytes", ErrBadRegion, r.Start, r.End, gr)
		}
	}

	// The encoded address carries log2(size)-3 trailing one bits.
	k := uint32(bits.Len32(size)) - 1 - 3
	addr := (r.Start >> 2) | (1<<k - 1)

	if s.torBase(entry) {
		return fmt.Errorf("%w: entry %d holds the base of a TOR entry", ErrConflict, entry)
	}

	if i, ok := s.torClaim(addr, entry); ok {
		return fmt.Errorf("%w: address %#x is a TOR boundary of entry %d", ErrConflict, r.Start, i)
	}

	s.Cfg[entry] = uint8(ModeNAPOT) | uint8(p)
	s.Addr[entry] = addr

	return
}
