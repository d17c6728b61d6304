package main

import (
	"github.com/alecthomas/kong"

	"github.com/privcrate/registry/pkg/version"
)

// App is the chartered-gitd binary's full command surface.
type App struct {
	Globals
	SSHD   SSHD   `cmd:"sshd" help:"run the registry's git-upload-pack SSH server"`
	Keygen Keygen `cmd:"keygen" help:"generate a host keypair"`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("chartered-gitd"),
		kong.Description("private crate registry git-upload-pack server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.GetVersionString()},
	)
	ctx.FatalIfErrorf(ctx.Run(&app.Globals))
}
