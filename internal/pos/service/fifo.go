package service

import (
	"sort"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/shopspring/decimal"
)

// Depletion 单个批次上的一次扣减
type Depletion struct {
	BatchID    uint            `json:"batch_id"`
	ExpiryDate time.Time       `json:"expiry_date"`
	Before     decimal.Decimal `json:"before"`
	Deducted   decimal.Decimal `json:"deducted"`
	After      decimal.Decimal `json:"after"`
}

// PlanDepletion 按到期日先到先扣（同日按批次ID）把 amount 分摊到批次上。
// 剩余量为0的批次不参与。available 是可用总量；不足时 ok=false 且不给出计划。
func PlanDepletion(batches []entity.Batch, amount decimal.Decimal) (plan []Depletion, available decimal.Decimal, ok bool) {
	eligible := make([]entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.QuantityRemaining.IsPositive() {
			eligible = append(eligible, b)
			available = available.Add(b.QuantityRemaining)
		}
	}
	if available.LessThan(amount) {
		return nil, available, false
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if !eligible[i].ExpiryDate.Equal(eligible[j].ExpiryDate) {
			return eligible[i].ExpiryDate.Before(eligible[j].ExpiryDate)
		}
		return eligible[i].ID < eligible[j].ID
	})

	remaining := amount
	for _, b := range eligible {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(b.QuantityRemaining, remaining)
		plan = append(plan, Depletion{
			BatchID:    b.ID,
			ExpiryDate: b.ExpiryDate,
			Before:     b.QuantityRemaining,
			Deducted:   take,
			After:      b.QuantityRemaining.Sub(take),
		})
		remaining = remaining.Sub(take)
	}
	return plan, available, true
}
