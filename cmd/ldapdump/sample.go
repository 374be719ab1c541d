package main

import (
	"encoding/hex"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/oba-ldap/ldapwire/codec"
	"github.com/oba-ldap/ldapwire/internal/ldapmsg"
	"github.com/oba-ldap/ldapwire/internal/searchfilter"
)

func sampleCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	msg, err := sampleMessage(c.String("message"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	data, err := codec.Encode(msg)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("ldapdump sample: %v", err), 1)
	}

	out := hex.EncodeToString(data)
	if cfg.Display.Color {
		out = color.GreenString(out)
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func sampleMessage(name string) (codec.Message, error) {
	switch name {
	case "unbind":
		return codec.Message{MessageID: 1, Operation: &ldapmsg.UnbindRequest{}}, nil
	case "delete":
		return codec.Message{
			MessageID: 42,
			Operation: &ldapmsg.DeleteResponse{LDAPResult: ldapmsg.NewSuccessResult()},
		}, nil
	case "search":
		return codec.Message{
			MessageID: 2,
			Operation: &ldapmsg.SearchRequest{
				BaseObject: "dc=example,dc=com",
				Scope:      ldapmsg.ScopeWholeSubtree,
				Filter:     &searchfilter.Filter{Type: searchfilter.FilterPresent, Attribute: "objectClass"},
			},
		}, nil
	case "extended":
		return codec.Message{
			MessageID: 3,
			Operation: &ldapmsg.ExtendedRequest{RequestName: "1.3.6.1.4.1.1466.20037"},
		}, nil
	default:
		return codec.Message{}, fmt.Errorf("ldapdump sample: unknown sample %q", name)
	}
}
