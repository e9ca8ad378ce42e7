package account

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/advisory"
	"github.com/ledgerline/lib-bankcore/bankcore/log"
)

// ConvertCurrency converts an amount for display using the supplied rate
// provider. Display-only: a provider failure surfaces as an error and no
// ledger state changes. All bookkeeping stays in the account's own currency.
func (acct *Account) ConvertCurrency(ctx context.Context, provider advisory.RateProvider, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	converted, err := advisory.Convert(ctx, provider, amount, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	acct.logger.Log(ctx, log.LevelInfo, "currency converted",
		log.String("account_id", acct.id),
		log.Decimal("amount", amount),
		log.Decimal("converted", converted),
		log.String("from", from),
		log.String("to", to),
	)

	return converted, nil
}
