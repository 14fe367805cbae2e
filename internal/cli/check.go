package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/fragmede/safechain/internal/api"
	"github.com/fragmede/safechain/internal/cache"
	"github.com/fragmede/safechain/internal/logging"
	"github.com/fragmede/safechain/internal/render"
	"github.com/fragmede/safechain/internal/ui/prompt"
)

func newCheckCmd(opts *options) *cobra.Command {
	var (
		jsonOutput    bool
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check how strong a password is",
		Long: `Send a password to the SafeChain service for a strength check, using the
stored session. The password is read from stdin or a hidden prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var password string
			var err error
			if passwordStdin {
				password, err = readPasswordStdin(cmd.InOrStdin())
			} else {
				password, err = prompt.Ask(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password", true)
			}
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("password is required")
			}

			return withRuntime(opts, func(rt *runtime) error {
				res, err := rt.api.CheckPassword(cmd.Context(), password, rt.auth.AuthHeader())
				if err != nil {
					return checkError(err)
				}
				recordCheck(rt, res)

				if jsonOutput {
					var buf bytes.Buffer
					if err := json.Indent(&buf, res.Raw, "", "  "); err != nil {
						return writeJSON(cmd.OutOrStdout(), res)
					}
					buf.WriteByte('\n')
					_, err := buf.WriteTo(cmd.OutOrStdout())
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Check(res.Level(), res.Reasons, res.Suggestions, 72))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the service response as JSON")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func checkError(err error) error {
	errb := oops.Code("CHECK_FAILED")
	if apiErr, ok := api.AsError(err); ok {
		if d := apiErr.Detail(); d != "" {
			return errb.With("status", apiErr.Status).Errorf("password check failed: %s", d)
		}
		return errb.With("status", apiErr.Status).Wrapf(err, "password check failed")
	}
	if api.IsTransport(err) {
		return errb.Wrapf(err, "password check failed: network error")
	}
	return errb.Wrapf(err, "password check failed")
}

// recordCheck appends the outcome, never the password, to the history.
func recordCheck(rt *runtime, res *api.CheckResult) {
	if rt.history == nil {
		return
	}
	var subject string
	if claims, ok := rt.session.Claims(); ok {
		subject = claims.Subject
	}
	err := rt.history.AddCheck(cache.CheckRecord{
		Subject:     subject,
		Strength:    res.Level(),
		Reasons:     len(res.Reasons),
		Suggestions: len(res.Suggestions),
		CheckedAt:   time.Now(),
	})
	if err != nil {
		logging.LogError(rt.logger, "recording check", err)
	}
}
