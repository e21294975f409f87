package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "pns/internal/jwt_token"
	"pns/internal/platform/config"
	id "pns/pkg/domain"
)

type tokenOpts struct {
	ttl        time.Duration
	signingKey string
}

func newTokenCommand() *cobra.Command {
	var opts tokenOpts
	cmd := &cobra.Command{
		Use:   "token <address>",
		Short: "Issue a bearer token for an address",
		Long: `Issue a bearer token whose address claim is the given account.
Signing key, issuer and audience come from the server environment
(PNS_JWT_SIGNING_KEY, PNS_JWT_ISSUER, PNS_JWT_AUDIENCE).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := id.ParseAddress(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			key := cfg.Auth.JWTSigningKey
			if opts.signingKey != "" {
				key = opts.signingKey
			}
			ttl := cfg.Auth.TokenTTL
			if cmd.Flags().Changed("ttl") {
				ttl = opts.ttl
			}

			token, err := jwttoken.NewJWTService(key, cfg.Auth.Issuer, cfg.Auth.Audience).GenerateAccessToken(addr, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().DurationVar(&opts.ttl, "ttl", time.Hour, "token lifetime")
	cmd.Flags().StringVar(&opts.signingKey, "signing-key", "", "override PNS_JWT_SIGNING_KEY")
	return cmd
}
