// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package epmp

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "OFF"
	case ModeTOR:
		return "TOR"
	case ModeNA4:
		return "NA4"
	case ModeNAPOT:
		return "NAPOT"
	}

	return "invalid"
}

// String returns the permission lock and access flags in `LRWX` notation,
// unset flags are replaced by dashes.
func (p Perm) String() string {
	s := []byte("----")

	if p&permL != 0 {
		s[0] = 'L'
	}

	if p&permR != 0 {
		s[1] = 'R'
	}

	if p&permW != 0 {
		s[2] = 'W'
	}

	if p&permX != 0 {
		s[3] = 'X'
	}

	return string(s)
}
