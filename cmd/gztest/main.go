// cmd/gztest/main.go
package main

import "os"

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(execute(os.Args[1:]))
}
