package main

func (cli *commandLine) rotateCode() error {
	code, err := cli.adminSvc.RotateCode()
	if err != nil {
		return err
	}
	logger.Printf("portal code rotated: %s", code)
	return cli.printPortalURL()
}

func (cli *commandLine) printPortalURL() error {
	s, err := cli.adminSvc.Settings()
	if err != nil {
		return err
	}
	logger.Printf("portal link: %s", s.PortalURL())
	return nil
}
