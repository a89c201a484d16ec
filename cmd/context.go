package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/formdoc/formdoc"
)

const (
	configFileName = "formdoc"
	defaultServer  = "http://localhost:4001"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	rootCmd.AddCommand(contextCommand)
	contextCommand.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())

	rootCmd.AddCommand(loginCommand())
}

type Context struct {
	Server string `json:"server"`
	Token  string `json:"token"`
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var token string
	var server string

	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if token == "" {
				color.Red("missing: --token")
				return
			}

			if server == "" {
				server = readContext().Server
			}
			if server == "" {
				server = defaultServer
			}

			writeContext(Context{Server: server, Token: token})
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&token, "token", "t", "", "token")
	command.Flags().StringVarP(&server, "server", "s", "", "server base url")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := readContext()
			printField("Server", cfg.Server)
			printField("Token", cfg.Token)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			writeContext(Context{})
			fmt.Println("context reset")
		},
	}

	return command
}

// loginCommand mints a development token from the server and saves it to
// the context.
func loginCommand() *cobra.Command {
	var server string
	var userID string

	command := &cobra.Command{
		Use:     "login",
		Short:   "mint a dev token and save it to the context",
		Example: "formdoc login -s http://localhost:4001 -u <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if server == "" {
				server = defaultServer
			}

			client := formdoc.NewClient(server, "")
			token, err := client.MintToken(context.Background(), userID)
			if err != nil {
				logrus.Error(err)
				return
			}

			writeContext(Context{Server: server, Token: token.Token})

			logrus.Infof("logged in as user: %s", token.UserID)
		},
	}

	command.Flags().StringVarP(&server, "server", "s", "", "server base url")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id to mint the token for")
	command.Flags().SortFlags = false

	return command
}

func writeContext(context Context) {
	if err := os.MkdirAll("./.tmp", 0755); err != nil {
		fmt.Println("error creating config dir: ", err)
		return
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")
	viper.Set("context", context)

	if err := viper.WriteConfigAs("./.tmp/" + configFileName + ".yml"); err != nil {
		fmt.Println("error writing config file: ", err)
	}
}

func readContext() Context {
	var ctx Context

	// create file if it doesn't exist
	if _, err := os.Stat("./.tmp/" + configFileName + ".yml"); os.IsNotExist(err) {
		return ctx
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
	}

	if err := viper.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}

// apiClient builds a client from the saved context.
func apiClient() *formdoc.Client {
	cfg := readContext()
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	if cfg.Token == "" {
		color.Yellow("no token in context, run: formdoc login")
	}

	return formdoc.NewClient(cfg.Server, cfg.Token)
}
