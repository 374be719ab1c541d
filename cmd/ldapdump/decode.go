package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/urfave/cli"

	"github.com/oba-ldap/ldapwire/codec"
)

func decodeCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("ldapdump decode: expected a hex-encoded PDU argument", 1)
	}

	data, err := hex.DecodeString(strings.ReplaceAll(strings.Join(c.Args(), ""), " ", ""))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("ldapdump decode: bad hex input: %v", err), 1)
	}

	cfg, err := loadConfig()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	d := codec.NewDecoder(cfg.Decoder)
	msgs, err := d.Feed(data)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("ldapdump decode: %v", err), 1)
	}

	var summary strings.Builder
	for _, msg := range msgs {
		printMessage(&summary, msg, cfg.Display.Color)
		if cfg.Display.Clipboard {
			if copyErr := clipboard.WriteAll(summary.String()); copyErr != nil {
				fmt.Fprintf(c.App.Writer, "warning: could not copy to clipboard: %v\n", copyErr)
			}
		}
		if c.Bool("open-referral") {
			if uri := firstReferral(msg.Operation); uri != "" {
				if openErr := browser.OpenURL(uri); openErr != nil {
					fmt.Fprintf(c.App.Writer, "warning: could not open referral %q: %v\n", uri, openErr)
				}
			}
		}
	}

	fmt.Fprint(c.App.Writer, summary.String())
	return nil
}

func printMessage(w *strings.Builder, msg codec.Message, useColor bool) {
	label := fmt.Sprintf("%T", msg.Operation)
	if useColor {
		label = color.New(color.FgCyan, color.Bold).Sprint(label)
	}
	fmt.Fprintf(w, "messageID=%d operation=%s\n", msg.MessageID, label)
	fmt.Fprintf(w, "  raw: %+v\n", msg.Operation)
	for _, ctrl := range msg.Controls {
		oid := ctrl.OID
		if useColor {
			oid = color.YellowString(oid)
		}
		fmt.Fprintf(w, "  control oid=%s criticality=%v\n", oid, ctrl.Criticality)
	}
	for _, typed := range msg.TypedControls {
		fmt.Fprintf(w, "  typed control: %+v\n", typed)
	}
}

// firstReferral extracts the first referral URI from an operation
// carrying an LDAPResult, if any. By the time a Message reaches here
// the decoder has already applied the referral policy (discarding a
// referral on a non-REFERRAL result unless configured otherwise), so
// this only has to read whatever survived that.
func firstReferral(op any) string {
	v, ok := op.(interface{ GetReferral() []string })
	if !ok {
		return ""
	}
	referral := v.GetReferral()
	if len(referral) == 0 {
		return ""
	}
	return referral[0]
}
