// Command ts benchmarks the linear-step ring queue and paints a test
// pattern on the terminal.
//
// Usage:
//
//	go run ./cmd/ts bench -n 10000000 --burst 4096 --growth-step 256
//	go run ./cmd/ts paint --color
package main

import "github.com/randomizedcoder/ringqueue/internal/cli"

func main() {
	cli.Execute()
}
