package main

import (
	"os"

	"github.com/formdoc/formdoc/cmd"
)

func main() {
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort != "" && len(os.Args) == 1 {
		// plain `go run ./debug` with HTTP_PORT set boots the server
		os.Args = append(os.Args, "serve", "-p", httpPort)
	}

	cmd.Execute()
}
