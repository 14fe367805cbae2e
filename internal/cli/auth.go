package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fragmede/safechain/internal/ui/prompt"
)

// credentialFlags are shared by login and register.
type credentialFlags struct {
	passwordStdin bool
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from stdin")
}

// readCredentials returns the email from args or an interactive prompt, and
// the password from stdin or a hidden prompt. Passwords are never taken from
// arguments.
func (f *credentialFlags) read(cmd *cobra.Command, args []string) (email, password string, err error) {
	in := cmd.InOrStdin()
	out := cmd.ErrOrStderr()

	if len(args) > 0 {
		email = args[0]
	} else if f.passwordStdin {
		return "", "", errors.New("email argument is required with --password-stdin")
	} else if email, err = prompt.Ask(in, out, "Email", false); err != nil {
		return "", "", err
	}
	if strings.TrimSpace(email) == "" {
		return "", "", errors.New("email is required")
	}

	if f.passwordStdin {
		password, err = readPasswordStdin(in)
	} else {
		password, err = prompt.Ask(in, out, "Password", true)
	}
	if err != nil {
		return "", "", err
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}
	return email, password, nil
}

// readPasswordStdin reads the first line of r, without its line ending.
func readPasswordStdin(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(opts *options) *cobra.Command {
	creds := &credentialFlags{}

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and store the session",
		Long: `Sign in to the SafeChain service. The session token is stored so later
commands and the interactive interface are signed in.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := creds.read(cmd, args)
			if err != nil {
				return err
			}
			return withRuntime(opts, func(rt *runtime) error {
				return login(cmd, rt, email, password)
			})
		},
	}
	creds.register(cmd)
	return cmd
}

func login(cmd *cobra.Command, rt *runtime, email, password string) error {
	res := rt.auth.Login(cmd.Context(), email, password)
	if !res.Success {
		return errors.New(res.Message)
	}
	subject := email
	if claims, ok := rt.session.Claims(); ok && claims.Subject != "" {
		subject = claims.Subject
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", subject)
	return nil
}

func newRegisterCmd(opts *options) *cobra.Command {
	creds := &credentialFlags{}
	var thenLogin bool

	cmd := &cobra.Command{
		Use:   "register [email]",
		Short: "Create an account",
		Long: `Create a SafeChain account. Registration alone does not sign you in;
pass --login to sign in straight after.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := creds.read(cmd, args)
			if err != nil {
				return err
			}
			return withRuntime(opts, func(rt *runtime) error {
				res := rt.auth.Register(cmd.Context(), email, password)
				if !res.Success {
					return errors.New(res.Message)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", email)
				if !thenLogin {
					return nil
				}
				return login(cmd, rt, email, password)
			})
		},
	}
	creds.register(cmd)
	cmd.Flags().BoolVar(&thenLogin, "login", false, "sign in after registering")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Long:  `Remove the stored session token. No request is sent to the service.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				rt.auth.Logout()
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}
