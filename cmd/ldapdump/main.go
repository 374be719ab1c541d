// Command ldapdump is a manual-inspection tool for ldapwire: it
// encodes a handful of canned sample messages or decodes a hex-encoded
// PDU given on the command line, and prints the result. It is not part
// of the codec itself — spec.md is explicit that the core has no CLI,
// environment variables, or persisted state; this binary exists purely
// so a developer can eyeball what the codec produces or accepts.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/oba-ldap/ldapwire/internal/codecconfig"
)

func main() {
	app := cli.NewApp()
	app.Name = "ldapdump"
	app.Usage = "encode and decode LDAPv3 PDUs for manual inspection"
	app.Version = "1.0.0"
	app.Commands = []cli.Command{
		{
			Name:      "decode",
			Aliases:   []string{"d"},
			Usage:     "decode a hex-encoded PDU and print its structure",
			ArgsUsage: "<hex-bytes>",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "clipboard", Usage: "copy the decoded summary to the clipboard"},
				cli.BoolFlag{Name: "open-referral", Usage: "open the first referral URI, if any, in a browser"},
			},
			Action: decodeCommand,
		},
		{
			Name:    "sample",
			Aliases: []string{"s"},
			Usage:   "encode one of the built-in sample messages and print its hex bytes",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "message", Value: "unbind", Usage: "one of: unbind, delete, search, extended"},
			},
			Action: sampleCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*codecconfig.Config, error) {
	cfg, err := codecconfig.Parse()
	if err != nil {
		return nil, fmt.Errorf("ldapdump: loading configuration: %w", err)
	}
	return cfg, nil
}
