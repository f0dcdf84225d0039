// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/term"

	"github.com/rvboot/epmp"
)

func init() {
	Add(Cmd{
		Name:    "off",
		Args:    6,
		Pattern: regexp.MustCompile(`^off (\d+) ([[:xdigit:]]+) (\S+) (\S+) (\S+) (\S+)$`),
		Syntax:  "<entry> <hex addr> <r> <w> <x> <l>",
		Help:    "disable matching, keep boundary address",
		Fn:      offCmd,
	})

	Add(Cmd{
		Name:    "tor",
		Args:    7,
		Pattern: regexp.MustCompile(`^tor (\d+) ([[:xdigit:]]+) ([[:xdigit:]]+) (\S+) (\S+) (\S+) (\S+)$`),
		Syntax:  "<entry> <hex start> <hex end> <r> <w> <x> <l>",
		Help:    "configure top of range entry",
		Fn:      torCmd,
	})

	Add(Cmd{
		Name:    "na4",
		Args:    6,
		Pattern: regexp.MustCompile(`^na4 (\d+) ([[:xdigit:]]+) (\S+) (\S+) (\S+) (\S+)$`),
		Syntax:  "<entry> <hex addr> <r> <w> <x> <l>",
		Help:    "configure 4 byte naturally aligned entry",
		Fn:      na4Cmd,
	})

	Add(Cmd{
		Name:    "napot",
		Args:    7,
		Pattern: regexp.MustCompile(`^napot (\d+) ([[:xdigit:]]+) ([[:xdigit:]]+) (\S+) (\S+) (\S+) (\S+)$`),
		Syntax:  "<entry> <hex start> <hex size> <r> <w> <x> <l>",
		Help:    "configure power of two naturally aligned entry",
		Fn:      napotCmd,
	})

	Add(Cmd{
		Name:    "decode",
		Args:    1,
		Pattern: regexp.MustCompile(`^decode (\d+)$`),
		Syntax:  "<entry>",
		Help:    "decode shadow state entry",
		Fn:      decodeCmd,
	})

	Add(Cmd{
		Name: "state",
		Help: "display shadow state",
		Fn:   stateCmd,
	})
}

func parseEntry(arg string) (entry int, err error) {
	entry, err = strconv.Atoi(arg)

	if err != nil {
		return 0, fmt.Errorf("invalid entry, %v", err)
	}

	return
}

func parseAddr(arg string) (addr uint32, err error) {
	val, err := strconv.ParseUint(arg, 16, 32)

	if err != nil {
		return 0, fmt.Errorf("invalid address, %v", err)
	}

	return uint32(val), nil
}

var perms = map[[4]bool]epmp.Perm{
	{false, false, false, false}: epmp.PermUnlockedMachineAllUserNone,
	{false, false, true, false}:  epmp.PermUnlockedMachineAllUserExecute,
	{true, false, false, false}:  epmp.PermUnlockedMachineAllUserRead,
	{true, false, true, false}:   epmp.PermUnlockedMachineAllUserReadExecute,
	{true, true, false, false}:   epmp.PermUnlockedMachineAllUserReadWrite,
	{true, true, true, false}:    epmp.PermUnlockedMachineAllUserAll,
	{false, false, false, true}:  epmp.PermLockedMachineNoneUserNone,
	{false, false, true, true}:   epmp.PermLockedMachineExecuteUserExecute,
	{true, false, false, true}:   epmp.PermLockedMachineReadUserRead,
	{true, false, true, true}:    epmp.PermLockedMachineReadExecuteUserReadExecute,
	{true, true, false, true}:    epmp.PermLockedMachineReadWriteUserReadWrite,
	{true, true, true, true}:     epmp.PermLockedMachineAllUserAll,
}

func parsePerm(arg []string) (p epmp.Perm, err error) {
	var flags [4]bool

	for i, s := range arg {
		if flags[i], err = strconv.ParseBool(s); err != nil {
			return 0, fmt.Errorf("invalid permission flag %q, %v", s, err)
		}
	}

	if flags[1] && !flags[0] {
		return 0, errors.New("R=0 W=1 is reserved")
	}

	return perms[flags], nil
}

func offCmd(_ *term.Terminal, arg []string) (res string, err error) {
	entry, err := parseEntry(arg[0])

	if err != nil {
		return
	}

	addr, err := parseAddr(arg[1])

	if err != nil {
		return
	}

	p, err := parsePerm(arg[2:])

	if err != nil {
		return
	}

	if err = state.ConfigureOff(entry, epmp.Region{Start: addr, End: addr}, p); err != nil {
		return
	}

	return entryInfo(entry), nil
}

func torCmd(_ *term.Terminal, arg []string) (res string, err error) {
	entry, err := parseEntry(arg[0])

	if err != nil {
		return
	}

	start, err := parseAddr(arg[1])

	if err != nil {
		return
	}

	end, err := parseAddr(arg[2])

	if err != nil {
		return
	}

	p, err := parsePerm(arg[3:])

	if err != nil {
		return
	}

	if err = state.ConfigureTOR(entry, epmp.Region{Start: start, End: end}, p); err != nil {
		return
	}

	return entryInfo(entry), nil
}

func na4Cmd(_ *term.Terminal, arg []string) (res string, err error) {
	entry, err := parseEntry(arg[0])

	if err != nil {
		return
	}

	addr, err := parseAddr(arg[1])

	if err != nil {
		return
	}

	p, err := parsePerm(arg[2:])

	if err != nil {
		return
	}

	if err = state.ConfigureNA4(entry, epmp.Region{Start: addr, End: addr + 4}, p); err != nil {
		return
	}

	return entryInfo(entry), nil
}

func napotCmd(_ *term.Terminal, arg []string) (res string, err error) {
	entry, err := parseEntry(arg[0])

	if err != nil {
		return
	}

	start, err := parseAddr(arg[1])

	if err != nil {
		return
	}

	size, err := parseAddr(arg[2])

	if err != nil {
		return
	}

	p, err := parsePerm(arg[3:])

	if err != nil {
		return
	}

	if err = state.ConfigureNAPOT(entry, epmp.Region{Start: start, End: start + size}, p); err != nil {
		return
	}

	return entryInfo(entry), nil
}

func decodeCmd(_ *term.Terminal, arg []string) (res string, err error) {
	entry, err := parseEntry(arg[0])

	if err != nil {
		return
	}

	return entryInfo(entry), nil
}

func entryInfo(entry int) string {
	if entry < 0 || entry >= epmp.NumEntries {
		return ""
	}

	info := fmt.Sprintf("%2d cfg:%#.2x addr:%#.8x %-5s", entry, state.Cfg[entry], state.Addr[entry], state.Mode(entry))

	r, p, err := state.Decode(entry)

	if err != nil {
		return fmt.Sprintf("%s (%v)", info, err)
	}

	return fmt.Sprintf("%s %s %#.8x-%#.8x", info, p, r.Start, r.End)
}

func stateCmd(_ *term.Terminal, _ []string) (res string, err error) {
	var buf bytes.Buffer

	for i := 0; i < epmp.NumEntries; i++ {
		buf.WriteString(entryInfo(i) + "\n")
	}

	return buf.String(), nil
}
