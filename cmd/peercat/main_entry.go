//go:build !testcoverage

package main

import "os"

func main() {
	if err := run(os.Args[1:], DefaultConfig()); err != nil {
		fatal(os.Stderr, "%v", err)
	}
}
