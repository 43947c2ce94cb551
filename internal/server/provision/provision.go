// Package provision implements the admin provisioning command: it reads a
// username, an optional email and a password, then creates the admin or
// resets the existing one's password.
package provision

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/logicspark/logicspark/internal/flagx"
	"github.com/logicspark/logicspark/internal/server/models"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Provisioner is implemented by services.AuthService.
type Provisioner interface {
	ProvisionAdmin(ctx context.Context, username, email, password string) (*models.Admin, bool, error)
}

type Options struct {
	Username string
	Email    string
}

// ParseArgs reads -username and -email. Server configuration flags present
// in args are ignored so both commands can share one command line.
func ParseArgs(args []string) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.Username, "username", "admin", "admin username")
	fs.StringVar(&opts.Email, "email", "", "admin email (kept unchanged for an existing admin when empty)")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-username", "-email"})); err != nil {
		return Options{}, err
	}
	opts.Username = strings.TrimSpace(opts.Username)
	if opts.Username == "" {
		return Options{}, errors.New("username must not be empty")
	}
	return opts, nil
}

// ReadPassword prompts twice on a terminal and checks that both entries
// match. When fd is not a terminal a single line is read from in instead.
func ReadPassword(in io.Reader, fd int, w io.Writer) (string, error) {
	if !isTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	first, err := prompt(fd, w, "Enter password: ")
	if err != nil {
		return "", err
	}
	second, err := prompt(fd, w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

func prompt(fd int, w io.Writer, text string) (string, error) {
	if _, err := fmt.Fprint(w, text); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

// Run provisions the admin and reports what happened on w.
func Run(ctx context.Context, p Provisioner, opts Options, password string, w io.Writer) error {
	admin, created, err := p.ProvisionAdmin(ctx, opts.Username, opts.Email, password)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(w, "Admin %q created (id %s)\n", admin.Username, admin.ID)
	} else {
		fmt.Fprintf(w, "Password updated for admin %q\n", admin.Username)
	}
	return nil
}
