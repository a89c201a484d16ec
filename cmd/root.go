package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "formdoc",
	Short: "form document management tool",
	Example: `formdoc serve -p 4001
formdoc create -t <title>
formdoc get -f <form-id>
formdoc list
formdoc update -f <form-id> -t <title> -c <content>
formdoc publish -f <form-id> -v <version>
formdoc unpublish -f <form-id>
formdoc versions -f <form-id>
formdoc delete -f <form-id>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
