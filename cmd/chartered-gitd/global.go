package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/privcrate/registry/pkg/version"
)

// Globals holds the flags every subcommand shares.
type Globals struct {
	Verbose   bool        `short:"V" name:"verbose" help:"Make the operation more talkative"`
	ExpandEnv bool        `short:"E" name:"expand-env" help:"Replace $VAR/${VAR} in the config file with the current environment's values"`
	Version   VersionFlag `short:"v" name:"version" help:"Show version number and quit"`
}

// DbgPrint writes a yellow, timestamp-free diagnostic line when
// Globals.Verbose is set.
func (g *Globals) DbgPrint(format string, args ...any) {
	if !g.Verbose {
		return
	}
	message := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	var buf bytes.Buffer
	for _, line := range strings.Split(message, "\n") {
		buf.WriteString("\x1b[33m* ")
		buf.WriteString(line)
		buf.WriteString("\x1b[0m\n")
	}
	_, _ = os.Stderr.Write(buf.Bytes())
}

// VersionFlag prints the version header and exits, the same
// Decode/IsBool/BeforeApply shape alecthomas/kong documents for a
// custom "-v/--version" flag.
type VersionFlag bool

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(version.GetVersionString())
	app.Exit(0)
	return nil
}
