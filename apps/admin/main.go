package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/trezcool/acadmin/core"
	"github.com/trezcool/acadmin/services/logger"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	conf, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return 1
	}

	std, closeLog, err := logsvc.NewLocalLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: setting up logger: %s\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()
	logger := logsvc.NewRollbarLogger(std, conf).With("session", uuid.New().String())
	defer logger.Close()

	// start CLI
	cli := commandLine{
		conf: conf,
		in:   os.Stdin,
		out:  os.Stdout,
		log:  logger,
	}
	if err := cli.run(context.Background(), os.Args); err != nil {
		switch err {
		case errHelp, errUnknownDepartment:
		default:
			logger.Error("admin session failed", err)
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		return 1
	}
	return 0
}
