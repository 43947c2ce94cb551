package provision

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/logicspark/logicspark/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvisioner struct {
	created  bool
	err      error
	username string
	email    string
	password string
}

func (f *fakeProvisioner) ProvisionAdmin(ctx context.Context, username, email, password string) (*models.Admin, bool, error) {
	f.username, f.email, f.password = username, email, password
	if f.err != nil {
		return nil, false, f.err
	}
	return &models.Admin{ID: "a-1", Username: username, Email: email}, f.created, nil
}

func stubTerminal(t *testing.T, tty bool, answers ...string) {
	t.Helper()
	oldRead, oldTTY := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldTTY })

	isTerminal = func(int) bool { return tty }
	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no input")
		}
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}
}

func TestParseArgs(t *testing.T) {
	opts, err := ParseArgs([]string{"-d", "postgres://x", "-username", "root", "-email=root@x.com"})
	require.NoError(t, err)
	assert.Equal(t, Options{Username: "root", Email: "root@x.com"}, opts)

	opts, err = ParseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "admin", opts.Username)
	assert.Empty(t, opts.Email)

	_, err = ParseArgs([]string{"-username=  "})
	assert.Error(t, err)
}

func TestReadPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, "s3cret", "s3cret")

	var out bytes.Buffer
	pw, err := ReadPassword(strings.NewReader(""), 0, &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Contains(t, out.String(), "Enter password: ")
	assert.Contains(t, out.String(), "Repeat password: ")
}

func TestReadPassword_Mismatch(t *testing.T) {
	stubTerminal(t, true, "one", "two")

	_, err := ReadPassword(strings.NewReader(""), 0, &bytes.Buffer{})
	assert.ErrorContains(t, err, "do not match")
}

func TestReadPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true)

	_, err := ReadPassword(strings.NewReader(""), 0, &bytes.Buffer{})
	assert.ErrorContains(t, err, "read password")
}

func TestReadPassword_Piped(t *testing.T) {
	stubTerminal(t, false)

	pw, err := ReadPassword(strings.NewReader("from-pipe\r\nignored\n"), 0, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "from-pipe", pw)

	pw, err = ReadPassword(strings.NewReader("no-newline"), 0, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "no-newline", pw)

	_, err = ReadPassword(strings.NewReader(""), 0, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	p := &fakeProvisioner{created: true}

	require.NoError(t, Run(context.Background(), p, Options{Username: "root", Email: "r@x.com"}, "pw", &out))
	assert.Equal(t, "root", p.username)
	assert.Equal(t, "r@x.com", p.email)
	assert.Equal(t, "pw", p.password)
	assert.Contains(t, out.String(), `Admin "root" created (id a-1)`)

	out.Reset()
	p.created = false
	require.NoError(t, Run(context.Background(), p, Options{Username: "root"}, "pw2", &out))
	assert.Contains(t, out.String(), `Password updated for admin "root"`)

	p.err = errors.New("db down")
	assert.EqualError(t, Run(context.Background(), p, Options{Username: "root"}, "pw", &out), "db down")
}
