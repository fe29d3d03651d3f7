package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xrplens/xrplens-backend/internal/domain"
)

// Classify converts raw history entries into deposit/withdrawal records
// relative to the subject address.
//
// Entries without an inner payload or without an amount are malformed for
// this analysis and skipped silently. A transaction in which the subject is
// neither sender nor receiver carries no balance-affecting direction and is
// dropped too.
func (s *Service) Classify(envelopes []domain.TransactionEnvelope, subject string) []domain.ClassifiedTransaction {
	classified := make([]domain.ClassifiedTransaction, 0, len(envelopes))
	skipped := 0

	for _, envelope := range envelopes {
		tx := envelope.Tx
		if tx == nil || tx.Amount == nil {
			skipped++
			continue
		}

		var direction domain.Direction
		switch {
		case tx.Destination == subject:
			direction = domain.DirectionDeposit
		case tx.Account == subject:
			direction = domain.DirectionWithdrawal
		default:
			continue
		}

		var date *time.Time
		if tx.Date != nil {
			when := domain.RippleTimeToTime(*tx.Date)
			date = &when
		}

		classified = append(classified, domain.ClassifiedTransaction{
			Direction:   direction,
			Asset:       normalizeAmount(tx.Amount),
			Source:      domain.Endpoint{Address: tx.Account, Tag: tx.SourceTag},
			Destination: domain.Endpoint{Address: tx.Destination, Tag: tx.DestinationTag},
			Fee:         parseFee(tx.Fee),
			Memos:       tx.Memos,
			Date:        date,
			Hash:        tx.Hash,
		})
	}

	if skipped > 0 {
		s.Log.Debug().Str("subject", subject).Int("skipped", skipped).Msg("malformed history entries skipped")
	}
	return classified
}

// normalizeAmount resolves the two amount representations into one asset:
// native drops scale down to major units, issued currencies keep their own
// value and get their code decoded for display. An undecodable code yields
// an empty currency, which downstream renders as unknown.
func normalizeAmount(amount *domain.LedgerAmount) domain.Asset {
	if amount.Native {
		return domain.Asset{
			Currency: domain.NativeCurrency,
			Value:    domain.DropsToXRP(amount.Drops),
		}
	}
	return domain.Asset{
		Currency: domain.DecodeCurrencyCode(amount.Currency, domain.DefaultCurrencyMaxLength),
		Issuer:   amount.Issuer,
		Value:    amount.Value,
	}
}

// parseFee normalizes the optional drop-denominated fee. A missing or
// malformed fee contributes zero rather than failing the record.
func parseFee(fee string) decimal.Decimal {
	if fee == "" {
		return decimal.Zero
	}
	xrp, err := domain.ParseDrops(fee)
	if err != nil {
		return decimal.Zero
	}
	return xrp
}
