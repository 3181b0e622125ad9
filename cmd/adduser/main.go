// Command adduser creates a user account from the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"finance_tracker/internal/auth"
	"finance_tracker/internal/config"
	"finance_tracker/internal/db"
	"finance_tracker/internal/domain"
	"finance_tracker/internal/store"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	dbCfg, err := config.LoadDatabase() // Same DB_* settings as the server
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Login email")
	password := fs.String("password", "", "Password (prompted for when omitted)")
	driver := fs.String("driver", dbCfg.DBDriver, "Database driver: mysql, postgres or sqlite")
	dsn := fs.String("dsn", "", "Database DSN (defaults to DATABASE_URL or the DB_* settings)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -name <name> -email <email> [-password <password>] [-driver <driver>] [-dsn <dsn>]")
		fs.PrintDefaults()
		return errors.New("-name and -email are required")
	}
	if *dsn == "" {
		dbCfg.DBDriver = *driver
		if *dsn, err = dbCfg.DSN(); err != nil {
			return fmt.Errorf("%w (or pass -dsn)", err)
		}
	}

	pw := *password
	if pw == "" {
		fmt.Fprint(stdout, "Password: ")
		if pw, err = readPassword(stdin); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	gdb, err := db.Open(*driver, *dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.WarnLevel)

	svc := auth.NewService(store.NewUsers(gdb), auth.BcryptHasher{}, nil, log)
	u, err := svc.CreateUser(context.Background(), *name, *email, pw)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return errors.New(de.Message)
		}
		return err
	}

	fmt.Fprintf(stdout, "User %s <%s> created with ID %d\n", u.Name, u.Email, u.ID)
	return nil
}

// readPassword reads without echo from a terminal, or one line otherwise
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	sc := bufio.NewScanner(stdin)
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
