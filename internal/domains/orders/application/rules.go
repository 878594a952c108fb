package application

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

// Rule is the availability policy for one product type.
type Rule interface {
	CanHandle(product *domain.Product) bool
	// ProcessOrder applies the rule to one ordered unit, persisting and notifying as needed.
	ProcessOrder(ctx context.Context, product *domain.Product) error
}

// RuleDependencies carries the collaborators shared by the built-in rules.
type RuleDependencies struct {
	Products ports.ProductWriter
	Notifier ports.Notifier
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultRules returns the built-in rules in registration order.
func DefaultRules(deps RuleDependencies) []Rule {
	return []Rule{
		NewNormalProductHandler(deps.Products, deps.Notifier),
		NewSeasonalProductHandler(deps.Products, deps.Notifier, deps.Now),
		NewExpirableProductHandler(deps.Products, deps.Notifier, deps.Now),
	}
}

// RuleSelector dispatches a product to the first registered rule that accepts it.
type RuleSelector struct {
	rules []Rule
}

// NewRuleSelector registers rules; earlier rules win ties.
func NewRuleSelector(rules ...Rule) *RuleSelector {
	registered := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule != nil {
			registered = append(registered, rule)
		}
	}
	return &RuleSelector{rules: registered}
}

// Select returns the rule for product or a *NoHandlerError.
func (s *RuleSelector) Select(product *domain.Product) (Rule, error) {
	for _, rule := range s.rules {
		if rule.CanHandle(product) {
			return rule, nil
		}
	}
	return nil, &NoHandlerError{ProductID: product.ID, Type: product.Type}
}

// persistAndNotifyDelay rewrites the row with its lead time, then tells the customer about the delay.
func persistAndNotifyDelay(ctx context.Context, products ports.ProductWriter, notifier ports.Notifier, product *domain.Product) error {
	if err := products.UpdateProduct(ctx, product); err != nil {
		return err
	}
	return notifier.SendDelayNotification(ctx, product.LeadTime, product.Name)
}

func clockOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
