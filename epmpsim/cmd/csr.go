// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/term"

	"github.com/rvboot/epmp/csr"
)

func init() {
	Add(Cmd{
		Name:    "csrr",
		Args:    1,
		Pattern: regexp.MustCompile(`^csrr ([[:xdigit:]]+)$`),
		Syntax:  "<hex csr>",
		Help:    "read raw register value",
		Fn:      csrReadCmd,
	})

	Add(Cmd{
		Name:    "csrw",
		Args:    2,
		Pattern: regexp.MustCompile(`^csrw ([[:xdigit:]]+) ([[:xdigit:]]+)$`),
		Syntax:  "<hex csr> <hex value>",
		Help:    "write raw register value (use with caution)",
		Fn:      csrWriteCmd,
	})
}

func parseReg(arg string) (reg csr.Reg, err error) {
	val, err := strconv.ParseUint(arg, 16, 12)

	if err != nil {
		return 0, fmt.Errorf("invalid CSR number, %v", err)
	}

	return csr.Reg(val), nil
}

func csrReadCmd(_ *term.Terminal, arg []string) (res string, err error) {
	reg, err := parseReg(arg[0])

	if err != nil {
		return
	}

	val, err := regs.Read(reg)

	if err != nil {
		return
	}

	return fmt.Sprintf("%#.3x: %#.8x", uint16(reg), val), nil
}

// csrWriteCmd pokes a raw register value bypassing WARL normalization,
// simulating state drift behind the firmware's back.
func csrWriteCmd(_ *term.Terminal, arg []string) (res string, err error) {
	reg, err := parseReg(arg[0])

	if err != nil {
		return
	}

	val, err := strconv.ParseUint(arg[1], 16, 32)

	if err != nil {
		return "", fmt.Errorf("invalid value, %v", err)
	}

	regs.Poke(reg, uint32(val))

	return fmt.Sprintf("%#.3x: %#.8x", uint16(reg), uint32(val)), nil
}
