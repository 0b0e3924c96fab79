// Command resolve is the strict CLI front end: one positional host
// argument, resolved as type A. No flags, no configuration file, no
// environment variables.
package main

import (
	"fmt"
	"os"

	"github.com/dnsscience/stubresolve/internal/packet"
	"github.com/dnsscience/stubresolve/internal/resolve"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: resolve <host>")
		os.Exit(1)
	}

	r := resolve.New()
	ips, err := r.Resolve(os.Args[1], packet.TypeA)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve failed: %s\n", resolve.AsErrorKind(err))
		os.Exit(1)
	}

	if len(ips) == 0 {
		fmt.Fprintln(os.Stderr, "resolve failed: no addresses found")
		os.Exit(1)
	}

	for _, ip := range ips {
		fmt.Println(ip)
	}
}
