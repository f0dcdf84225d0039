// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"golang.org/x/term"

	"github.com/rvboot/epmp"
	"github.com/rvboot/epmp/mem"
)

func init() {
	Add(Cmd{
		Name: "policy",
		Help: "apply, commit and verify the boot protection schema",
		Fn:   policyCmd,
	})
}

// configureBootPolicy populates s with the reference boot protection schema.
//
// Entry 6 is left for the debug status window (see epmp.UnlockDebugStatus),
// the remaining entries stay OFF with a zero boundary address.
func configureBootPolicy(s *epmp.State) (err error) {
	// boot ROM
	rom := epmp.Region{Start: mem.ROMStart, End: mem.ROMStart + mem.ROMSize}

	if err = s.ConfigureNAPOT(0, rom, epmp.PermLockedMachineReadExecuteUserReadExecute); err != nil {
		return
	}

	// embedded flash
	if err = s.ConfigureOff(1, epmp.Region{Start: mem.FlashStart, End: mem.FlashStart}, epmp.PermUnlockedMachineAllUserNone); err != nil {
		return
	}

	flash := epmp.Region{Start: mem.FlashStart, End: mem.FlashStart + mem.FlashSize}

	if err = s.ConfigureTOR(2, flash, epmp.PermLockedMachineReadExecuteUserReadExecute); err != nil {
		return
	}

	// main SRAM
	ram := epmp.Region{Start: mem.RAMStart, End: mem.RAMStart + mem.RAMSize}

	if err = s.ConfigureNAPOT(3, ram, epmp.PermUnlockedMachineAllUserNone); err != nil {
		return
	}

	// peripheral space
	if err = s.ConfigureOff(4, epmp.Region{Start: mem.MMIOStart, End: mem.MMIOStart}, epmp.PermUnlockedMachineAllUserNone); err != nil {
		return
	}

	mmio := epmp.Region{Start: mem.MMIOStart, End: mem.MMIOStart + mem.MMIOSize}

	return s.ConfigureTOR(5, mmio, epmp.PermUnlockedMachineAllUserNone)
}

func policyCmd(_ *term.Terminal, _ []string) (res string, err error) {
	s := epmp.State{}

	if err = configureBootPolicy(&s); err != nil {
		return
	}

	// commits the whole state and verifies it
	if err = epmp.UnlockDebugStatus(&s, regs, mem.DebugStatusStart, epmp.DefaultMseccfg); err != nil {
		return
	}

	state = s

	return "boot policy committed and verified", nil
}
