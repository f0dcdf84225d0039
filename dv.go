// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package epmp

import (
	"fmt"

	"github.com/rvboot/epmp/csr"
)

// DebugStatusEntry is the PMP entry dedicated to the debug status window.
const DebugStatusEntry = 6

// UnlockDebugStatus grants locked read/write access to the 4 byte debug
// status window at addr, used by verification environments to report test
// progress and results, which the production protection schema otherwise
// blocks.
//
// The dedicated entry is configured as NA4 within the shadow state, the
// state is committed and then verified against the expected security
// posture.
func UnlockDebugStatus(s *State, rf csr.RegisterFile, addr uint32, sec Mseccfg) (err error) {
	if addr%4 != 0 {
		return fmt.Errorf("%w: address %#x is not 4 byte aligned", ErrBadArg, addr)
	}

	region := Region{
		Start: addr,
		End:   addr + 4,
	}

	if err = s.ConfigureNA4(DebugStatusEntry, region, PermLockedMachineReadWriteUserReadWrite); err != nil {
		return
	}

	if err = s.Commit(rf); err != nil {
		return
	}

	return s.Verify(rf, sec)
}
