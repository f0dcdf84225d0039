// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package cmd implements the epmpsim console command interpreter.
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/rvboot/epmp"
	"github.com/rvboot/epmp/csr"
)

// Banner is the interpreter welcome message.
var Banner string

// CmdFn represents a command handler.
type CmdFn func(term *term.Terminal, arg []string) (res string, err error)

// Cmd represents a console command.
type Cmd struct {
	// Name is the command name.
	Name string
	// Args defines the number of command arguments, meant to be in the
	// Pattern capturing brackets.
	Args int
	// Pattern defines the command syntax and arguments.
	Pattern *regexp.Regexp
	// Syntax defines the Help() command syntax field.
	Syntax string
	// Help defines the Help() command description field.
	Help string
	// Fn defines the command handler.
	Fn CmdFn
}

var cmds = make(map[string]*Cmd)

// simulator context shared by all command handlers
var (
	state epmp.State
	regs  *csr.Sim
)

// Init sets the simulated register file operated on by the command handlers
// and resets the shadow state.
func Init(sim *csr.Sim) {
	state = epmp.State{}
	regs = sim
}

// Add registers a terminal interface command.
func Add(cmd Cmd) {
	cmds[cmd.Name] = &cmd
}

// Help returns a formatted string with instructions for all registered
// commands.
func Help(term *term.Terminal) string {
	var help bytes.Buffer
	var names []string

	t := tabwriter.NewWriter(&help, 16, 8, 0, '\t', tabwriter.TabIndent)

	for name := range cmds {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		_, _ = fmt.Fprintf(t, "%s\t%s\t # %s\n", cmds[name].Name, cmds[name].Syntax, cmds[name].Help)
	}

	_ = t.Flush()

	return help.String()
}

// Handler parses a command line and invokes the matching command handler.
func Handler(term *term.Terminal, line string) (err error) {
	if line = strings.TrimSpace(line); line == "" {
		return
	}

	var match *Cmd
	var arg []string

	for _, cmd := range cmds {
		if cmd.Pattern == nil {
			if cmd.Name == line {
				match = cmd
				break
			}

			continue
		}

		if m := cmd.Pattern.FindStringSubmatch(line); len(m) == cmd.Args+1 {
			match = cmd
			arg = m[1:]
			break
		}
	}

	if match == nil {
		return fmt.Errorf("unknown command, type `help`")
	}

	res, err := match.Fn(term, arg)

	if res != "" {
		fmt.Fprintln(term, res)
	}

	return
}

type stdio struct{}

func (stdio) Read(p []byte) (n int, err error) {
	return os.Stdin.Read(p)
}

func (stdio) Write(p []byte) (n int, err error) {
	return os.Stdout.Write(p)
}

// StdioConsole serves the command interpreter on the local terminal.
func StdioConsole() {
	fd := int(os.Stdin.Fd())

	old, err := term.MakeRaw(fd)

	if err != nil {
		log.Fatalf("could not set raw mode, %v", err)
	}
	defer func() {
		_ = term.Restore(fd, old)
	}()

	t := term.NewTerminal(stdio{}, "")
	t.SetPrompt(string(t.Escape.Red) + "> " + string(t.Escape.Reset))

	fmt.Fprintf(t, "%s\n\n", Banner)
	fmt.Fprintf(t, "%s\n", Help(t))

	for {
		line, err := t.ReadLine()

		if err == io.EOF {
			break
		}

		if err != nil {
			log.Printf("readline error: %v", err)
			continue
		}

		err = Handler(t, line)

		if err == io.EOF {
			break
		}

		if err != nil {
			fmt.Fprintf(t, "error: %v\n", err)
		}
	}
}
