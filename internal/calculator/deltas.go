// internal/calculator/deltas.go

// Package calculator holds the pure arithmetic of the ledger: computing the
// signed balance deltas a transaction applies to each affected member, and
// splitting a total into equal shares. No storage, no side effects.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
)

// BalanceDeltas computes the signed delta each affected member's balance
// receives when a transaction is committed:
//
//   - the payer gains totalAmount minus their own share (their full outlay is
//     covered by the others; their own consumption is not),
//   - every other participant loses their share.
//
// If the payer is not a participant their delta is the full totalAmount.
// The deltas always sum to zero, which keeps the group ledger zero-sum.
func BalanceDeltas(totalAmount decimal.Decimal, payerID int64, shares []domain.Share) map[int64]decimal.Decimal {
	deltas := make(map[int64]decimal.Decimal, len(shares)+1)

	payerShare := decimal.Zero
	for _, s := range shares {
		if s.UserID == payerID {
			payerShare = payerShare.Add(s.ShareAmount)
			continue
		}
		deltas[s.UserID] = deltas[s.UserID].Sub(s.ShareAmount)
	}
	deltas[payerID] = deltas[payerID].Add(totalAmount.Sub(payerShare))

	return deltas
}

// ShareSumMatches reports whether the shares sum to totalAmount. The ledger
// tolerates a discrepancy strictly below 0.01; a full cent off (19.99 against
// 20.00) is already a real accounting error and is rejected.
func ShareSumMatches(totalAmount decimal.Decimal, shares []domain.Share) bool {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.ShareAmount)
	}
	return sum.Sub(totalAmount).Abs().LessThan(decimal.NewFromFloat(0.01))
}

// EqualShares splits totalAmount evenly across participantIDs, rounding each
// share to two decimals. Division rarely lands on whole cents, so the rounding
// remainder is assigned to the payer's share when the payer participates, and
// to the first participant otherwise. The returned shares sum to totalAmount
// exactly.
func EqualShares(totalAmount decimal.Decimal, payerID int64, participantIDs []int64) ([]domain.Share, error) {
	n := len(participantIDs)
	if n == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	base := totalAmount.DivRound(decimal.NewFromInt(int64(n)), 2)
	remainder := totalAmount.Sub(base.Mul(decimal.NewFromInt(int64(n))))

	remainderIdx := 0
	for i, id := range participantIDs {
		if id == payerID {
			remainderIdx = i
			break
		}
	}

	shares := make([]domain.Share, n)
	for i, id := range participantIDs {
		amount := base
		if i == remainderIdx {
			amount = amount.Add(remainder)
		}
		shares[i] = domain.Share{UserID: id, ShareAmount: amount}
	}
	return shares, nil
}
