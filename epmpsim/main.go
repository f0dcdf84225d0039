// Copyright (c) The ePMP authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// epmpsim is an interactive simulator for the ePMP configuration engine,
// running the encoding, conflict checking and synchronization paths against
// a software model of the register file.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"runtime"

	"github.com/rvboot/epmp"
	"github.com/rvboot/epmp/csr"
	"github.com/rvboot/epmp/epmpsim/cmd"
	"github.com/rvboot/epmp/util"
)

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stdout)

	cmd.Banner = fmt.Sprintf("%s/%s (%s) • ePMP simulator", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func main() {
	var listenAddr string

	flag.StringVar(&listenAddr, "l", "", "serve the console over ssh on the given address")
	flag.Parse()

	sim := csr.NewSim()

	// boot posture set up by early boot code on real hardware
	sim.Poke(csr.MSECCFG, epmp.DefaultMseccfg.Encode())

	cmd.Init(sim)

	if listenAddr != "" {
		listener, err := net.Listen("tcp", listenAddr)

		if err != nil {
			log.Fatalf("could not listen on %s, %v", listenAddr, err)
		}

		console := &util.Console{
			Banner:  cmd.Banner,
			Help:    cmd.Help,
			Handler: cmd.Handler,
		}

		if err = console.Start(listener); err != nil {
			log.Fatalf("could not start ssh console, %v", err)
		}

		select {}
	}

	cmd.StdioConsole()
}
