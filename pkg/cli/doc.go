/*
Package cli provides helpers shared by the webpack commands.

Exit codes follow the kind of failure:

	os.Exit(cli.ExitCode(err)) // 0 ok, 1 failure, 2 invalid configuration, 3 tool misconfiguration

Reports are written with a Formatter chosen by --format (text, json, csv):

	formatter := cli.NewFormatter(format)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Long-running commands stop on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()
*/
package cli
