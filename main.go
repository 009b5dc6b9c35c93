package main

import (
	"log"
	"os"

	"github.com/mitchellh/cli"

	"github.com/bbrhub/mailblast/cmd/history"
	"github.com/bbrhub/mailblast/cmd/logs"
	"github.com/bbrhub/mailblast/cmd/send"
	"github.com/bbrhub/mailblast/cmd/senders"
	"github.com/bbrhub/mailblast/cmd/servers"
	"github.com/bbrhub/mailblast/cmd/templates"
	"github.com/bbrhub/mailblast/cmd/testsend"
	"github.com/bbrhub/mailblast/cmd/vars"
)

func main() {
	const appName, appVersion = "mailblast", "1.0.0"

	c := cli.NewCLI(appName, appVersion)
	c.Args = os.Args[1:]
	c.Autocomplete = true
	c.Commands = map[string]cli.CommandFactory{
		"send":     send.NewCmd(appName, appVersion),
		"test":     testsend.NewCmd(appName, appVersion),
		"history":  history.NewCmd(appName, appVersion),
		"logs":     logs.NewCmd(appName, appVersion),
		"sender":   senders.NewCmd(appName, appVersion),
		"server":   servers.NewCmd(appName, appVersion),
		"template": templates.NewCmd(appName, appVersion),
		"variable": vars.NewCmd(appName, appVersion),
	}

	exitStatus, err := c.Run()
	if err != nil {
		log.Println(err)
	}

	os.Exit(exitStatus)
}
