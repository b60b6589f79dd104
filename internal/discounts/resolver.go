package discounts

import (
	"sort"

	"github.com/google/uuid"

	"github.com/user941211/delivery-sub004/internal/domain"
)

// Resolver selects, orders and caps discounts against a validated subtotal.
type Resolver struct{}

// NewResolver returns a stateless resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

type candidate struct {
	rule   Rule
	index  int
	amount int64
}

// Resolve folds the eligible catalog entries into applications.
//
// Amount discounts go first, largest capped amount first with ties kept in catalog
// order, then free-delivery rules. Each amount is clamped to what is left of the
// subtotal, so the applied total never exceeds it. After a non-stackable rule is
// applied, later rules are skipped unless they list it.
func (r *Resolver) Resolve(subtotal int64, activeItems []domain.Item, catalog []Rule, ctx Context) []Application {
	apps := make([]Application, 0)
	if subtotal <= 0 || len(activeItems) == 0 {
		return apps
	}

	candidates := make([]candidate, 0, len(catalog))
	for idx, rule := range catalog {
		if rule.MinOrderAmount > subtotal || !rule.Eligible(ctx) {
			continue
		}
		candidates = append(candidates, candidate{rule: rule, index: idx, amount: rule.CappedAmount(subtotal)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aAmount, bAmount := a.rule.Kind.ReducesAmount(), b.rule.Kind.ReducesAmount()
		if aAmount != bAmount {
			return aAmount
		}
		if aAmount && a.amount != b.amount {
			return a.amount > b.amount
		}
		return a.index < b.index
	})

	remaining := subtotal
	applied := make([]Rule, 0, len(candidates))
	for _, c := range candidates {
		if !compatibleWithAll(c.rule, applied) {
			continue
		}
		amount := int64(0)
		if c.rule.Kind.ReducesAmount() {
			amount = min(c.amount, remaining)
			if amount <= 0 {
				continue
			}
			remaining -= amount
		}
		applied = append(applied, c.rule)
		apps = append(apps, Application{
			ID:             uuid.NewSHA1(ctx.CartID, c.rule.ID[:]),
			RuleID:         c.rule.ID,
			Name:           c.rule.Name,
			Kind:           c.rule.Kind,
			Value:          c.rule.Value,
			DiscountAmount: amount,
			Description:    c.rule.Description,
		})
	}
	return apps
}

func compatibleWithAll(rule Rule, applied []Rule) bool {
	for _, other := range applied {
		if !rule.CompatibleWith(other) {
			return false
		}
	}
	return true
}
