package main

import (
	"conventest"
)

// Without registered classes the binary serves the report commands:
// failures, stats and db init.
func main() {
	conventest.Main()
}
