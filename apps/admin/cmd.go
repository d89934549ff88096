package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/seed"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB // nil with the memory engine
	repos     seed.Repositories
	usrSvc    *user.Service
	reportSvc *report.Service
	validate  *validator.Validate
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                                  - run a goose command (up, down, status, redo, ...)")
	fmt.Fprintln(cli.out, "  seed [-sample]                                          - load classes and occurrence types, and optionally the sample school")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL [-rank RANK]            - create a user; the password is prompted next")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL                              - reset a user's password; the password is prompted next")
	fmt.Fprintln(cli.out, "  setactive -email EMAIL [-active=false]                  - activate or deactivate a user")
	fmt.Fprintln(cli.out, "  importstudents -file PATH [-dry]                        - import students from a .xlsx or .csv sheet")
	fmt.Fprintln(cli.out, "  export -kind KIND [-format xlsx|csv|pdf] [-out DIR] [-class ID] - write a report file")
}

// promptPassword reads a password without echoing it.
func (cli *commandLine) promptPassword(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	return string(pwd), err
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedSample := seedCmd.Bool("sample", false, "Also load the sample students, occurrences and absences.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email, used to log in. The password will be prompted next.")
	addUserRank := addUserCmd.String("rank", "Tenente", "The user's rank.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	setActiveCmd := flag.NewFlagSet("setactive", flag.ContinueOnError)
	setActiveEmail := setActiveCmd.String("email", "", "The user's email.")
	setActiveValue := setActiveCmd.Bool("active", true, "Whether the user may log in.")

	importCmd := flag.NewFlagSet("importstudents", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "Path of the .xlsx or .csv sheet.")
	importDry := importCmd.Bool("dry", false, "Only validate the sheet.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportKind := exportCmd.String("kind", "", "alunos, ocorrencias, faltas or completo.")
	exportFormat := exportCmd.String("format", "xlsx", "xlsx, csv or pdf.")
	exportOut := exportCmd.String("out", ".", "Destination directory.")
	exportClass := exportCmd.Int("class", 0, "Only this class.")

	for _, fs := range []*flag.FlagSet{seedCmd, addUserCmd, resetPasswordCmd, setActiveCmd, importCmd, exportCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.seed(*seedSample)

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		confirm, err := cli.promptPassword("Confirm password:")
		if err != nil {
			return err
		}
		return cli.addUser(user.NewUser{
			Name:            *addUserName,
			Rank:            *addUserRank,
			Email:           *addUserEmail,
			Password:        pwd,
			PasswordConfirm: confirm,
		})

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "setactive":
		if err := setActiveCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *setActiveEmail == "" {
			setActiveCmd.Usage()
			return errHelp
		}
		return cli.setActive(*setActiveEmail, *setActiveValue)

	case "importstudents":
		if err := importCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importFile, !*importDry)

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *exportKind == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportKind, *exportFormat, *exportOut, report.Filter{ClassID: *exportClass})

	default:
		cli.printUsage()
		return errHelp
	}
}
