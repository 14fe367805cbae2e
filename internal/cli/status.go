package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// SessionStatus describes the stored session.
type SessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
	Fingerprint   string     `json:"fingerprint,omitempty"`
	Store         string     `json:"store"`
	APIURL        string     `json:"api_url"`
}

func newStatusCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Long: `Show whether a session is stored and what its token says about it. The
token is decoded locally and not verified; the service decides whether it is
still valid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				status := sessionStatus(rt, time.Now())
				if jsonOutput {
					return writeJSON(cmd.OutOrStdout(), status)
				}
				writeStatusTable(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output status as JSON")
	return cmd
}

func sessionStatus(rt *runtime, now time.Time) SessionStatus {
	status := SessionStatus{
		Authenticated: rt.session.Authenticated(),
		Store:         rt.cfg.Store,
		APIURL:        rt.cfg.APIURL,
	}
	if !status.Authenticated {
		return status
	}
	status.Fingerprint = rt.session.Fingerprint()
	if claims, ok := rt.session.Claims(); ok {
		status.Subject = claims.Subject
		if !claims.IssuedAt.IsZero() {
			status.IssuedAt = &claims.IssuedAt
		}
		if !claims.ExpiresAt.IsZero() {
			status.ExpiresAt = &claims.ExpiresAt
			status.Expired = now.After(claims.ExpiresAt)
		}
	}
	return status
}

func writeStatusTable(w io.Writer, s SessionStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	state := "signed out"
	if s.Authenticated {
		state = "signed in"
	}
	fmt.Fprintf(tw, "SESSION\t%s\n", state)
	if s.Subject != "" {
		fmt.Fprintf(tw, "SUBJECT\t%s\n", s.Subject)
	}
	if s.IssuedAt != nil {
		fmt.Fprintf(tw, "ISSUED\t%s\n", s.IssuedAt.Local().Format(time.RFC3339))
	}
	if s.ExpiresAt != nil {
		expiry := s.ExpiresAt.Local().Format(time.RFC3339)
		if s.Expired {
			expiry += " (expired)"
		}
		fmt.Fprintf(tw, "EXPIRES\t%s\n", expiry)
	}
	if s.Fingerprint != "" {
		fmt.Fprintf(tw, "TOKEN\t%s\n", s.Fingerprint)
	}
	fmt.Fprintf(tw, "STORE\t%s\n", s.Store)
	fmt.Fprintf(tw, "API\t%s\n", s.APIURL)
	_ = tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	return nil
}
