package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/paycollect/paycollect/core/admin"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	adminSvc *admin.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  resetpassword - reset the admin password (prompted)")
	fmt.Println("  rotatecode    - replace the student portal access code")
	fmt.Println("  portalurl     - print the current student portal link")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "resetpassword":
		resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(string(pwd))
	case "rotatecode":
		return cli.rotateCode()
	case "portalurl":
		return cli.printPortalURL()
	default:
		cli.printUsage()
		return errHelp
	}
}
