package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pns/internal/names/fee"
	"pns/internal/names/models"
)

type quoteOpts struct {
	years    uint32
	tiers    string
	decimals int32
}

func newQuoteCommand() *cobra.Command {
	var opts quoteOpts
	cmd := &cobra.Command{
		Use:   "quote <name>",
		Short: "Price a name offline with the given fee tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := models.NormalizeName(args[0])
			if err := models.ValidateName(name, models.DefaultPolicy().MaxNameLength); err != nil {
				return err
			}
			tiers, err := parseTiers(opts.tiers)
			if err != nil {
				return err
			}
			amount, err := fee.NewCurve(tiers).Quote(name, opts.years)
			if err != nil {
				return err
			}
			tokens := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -opts.decimals)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s for %d year(s): %d (%s tokens)\n", name, opts.years, amount, tokens.String())
			return err
		},
	}
	cmd.Flags().Uint32Var(&opts.years, "years", 1, "subscription years")
	cmd.Flags().StringVar(&opts.tiers, "tiers", "", "five comma separated per-year fees (default reference tiers)")
	cmd.Flags().Int32Var(&opts.decimals, "decimals", 18, "token decimals for display")
	return cmd
}

func parseTiers(s string) (fee.Tiers, error) {
	if s == "" {
		return fee.ReferenceTiers, nil
	}
	var t fee.Tiers
	parts := strings.Split(s, ",")
	if len(parts) != len(t) {
		return t, fmt.Errorf("want %d fee tiers, got %d", len(t), len(parts))
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return t, fmt.Errorf("fee tier %d: %w", i+1, err)
		}
		t[i] = n
	}
	return t, nil
}
