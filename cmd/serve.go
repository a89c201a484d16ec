package cmd

import (
	"github.com/spf13/cobra"

	"github.com/formdoc/formdoc/internal/server"
)

func serveCmd() *cobra.Command {
	var httpPort string

	command := &cobra.Command{
		Use:     "serve",
		Short:   "start the form server",
		Example: "formdoc serve -p 4001",
		Run: func(cmd *cobra.Command, args []string) {
			server.NewServer(httpPort).Start()
		},
	}

	command.Flags().StringVarP(&httpPort, "port", "p", "4001", "http port")

	return command
}
