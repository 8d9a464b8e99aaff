package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/trezcool/acadmin/core"
	"github.com/trezcool/acadmin/core/academic"
	"github.com/trezcool/acadmin/storage/database"
	"github.com/trezcool/acadmin/storage/database/sqlx"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp              = errors.New("help provided")
	errUnknownDepartment = errors.New("department not found")
)

type commandLine struct {
	conf *core.Config
	in   io.Reader
	out  io.Writer
	log  core.Logger
}

// parseFlags overrides the loaded configuration with the command-line flags.
func (cli *commandLine) parseFlags(args []string) error {
	conf := cli.conf
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: admin [OPTIONS]")
		fmt.Fprintln(fs.Output(), "  Add course offerings and enroll students in the academic_inst database.")
		fs.PrintDefaults()
	}

	engine := fs.String("engine", conf.Database.Engine, "database engine: mysql, postgres or sqlite3")
	host := fs.String("host", conf.Database.Host, "host address of database (eg: localhost, remotemysql.com)")
	port := fs.Int("port", conf.Database.Port, "port number used to connect to the DB host (MySQL default port: 3306)")
	user := fs.String("user", conf.Database.User, "user name to use to connect to DB")
	pwd := fs.String("pwd", conf.Database.Password, "password for the user")
	promptPwd := fs.Bool("prompt-pwd", false, "read the password from the terminal instead of -pwd")
	dbName := fs.String("db", conf.Database.Name, "name of database to connect to (a file path for sqlite3)")
	year := fs.Int("year", conf.Term.Year, "year of the term to add offerings and enrollments to")
	sem := fs.String("sem", conf.Term.Semester, "semester of the term: Even or Odd")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return errHelp
	}

	conf.Database.Engine = *engine
	conf.Database.Host = *host
	conf.Database.Port = *port
	conf.Database.User = *user
	conf.Database.Password = *pwd
	conf.Database.Name = *dbName
	conf.Term.Year = *year
	conf.Term.Semester = *sem

	if *promptPwd {
		fmt.Fprint(cli.out, "Enter password:")
		p, err := readPasswordFunc(int(os.Stdin.Fd()))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		conf.Database.Password = string(p)
	}
	return conf.Validate()
}

func (cli *commandLine) academicTerm() academic.Term {
	return academic.Term{Year: cli.conf.Term.Year, Sem: academic.Semester(cli.conf.Term.Semester)}
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if err := cli.parseFlags(args); err != nil {
		return err
	}

	// set up DB
	db, err := database.Open(ctx, cli.conf.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return cli.serve(ctx, db)
}

// serve runs one interactive session over an open database.
func (cli *commandLine) serve(ctx context.Context, db core.DB) error {
	svc := academic.NewService(sqlxrepos.NewAcademicRepository(db), cli.log)
	con := newConsole(cli.in, cli.out, cli.conf.UI)
	sess := &session{
		con: con,
		svc: svc,
		wf:  academic.NewWorkflow(svc, con, cli.academicTerm()),
		log: cli.log,
	}
	return sess.start(ctx)
}
