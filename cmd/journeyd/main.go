// journeyd serves a recorded coaching journey over HTTP and gRPC
// and inspects it from the terminal
package main

import "github.com/nainya/journeylens/internal/cli"

func main() {
	cli.Execute()
}
