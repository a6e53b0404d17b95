package main

func (cli *commandLine) resetPassword(pwd string) error {
	if err := cli.adminSvc.ResetPassword(pwd); err != nil {
		return err
	}
	logger.Println("admin password updated")
	return nil
}
