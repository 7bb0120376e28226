// Package processor turns a low-stock event into an alert message. Both the
// price lookup and the language-model call are best effort: the price falls
// back to a fixed value and the message to a fixed template.
package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/alerts/pricing"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/llm"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// Event is the webhook payload sent by the catalog.
type Event struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
}

// Validate rejects events that cannot describe a product.
func (e Event) Validate() error {
	if strings.TrimSpace(e.ProductID) == "" {
		return common.NewValidationError("product_id", "product_id is required")
	}
	if strings.TrimSpace(e.ProductName) == "" {
		return common.NewValidationError("product_name", "product_name is required")
	}
	if e.CurrentStock < 0 {
		return common.NewValidationError("current_stock", "current_stock must not be negative")
	}
	return nil
}

// Outcome is the processed alert.
type Outcome struct {
	AlertText     string
	SupplierPrice float64
	Source        string
}

// Generator produces text; *llm.Chain implements it.
type Generator interface {
	Generate(ctx context.Context, p llm.Prompt) (llm.Completion, error)
}

type Processor struct {
	prices        pricing.Source
	llm           Generator
	fallbackPrice float64
	logger        logging.Logger
}

func New(prices pricing.Source, gen Generator, fallbackPrice float64, logger logging.Logger) *Processor {
	return &Processor{
		prices:        prices,
		llm:           gen,
		fallbackPrice: fallbackPrice,
		logger:        logger.With("module", "alert_processor"),
	}
}

// Process never fails for a valid event.
func (p *Processor) Process(ctx context.Context, ev Event) (Outcome, error) {
	if err := ev.Validate(); err != nil {
		return Outcome{}, err
	}

	log := p.logger.With("product_id", ev.ProductID)
	log.Info(ctx, "processing stock alert", "product_name", ev.ProductName, "current_stock", ev.CurrentStock)

	price := p.supplierPrice(ctx, log)

	out := Outcome{SupplierPrice: price}
	completion, err := p.llm.Generate(ctx, alertPrompt(ev, price))
	if err == nil {
		out.AlertText = strings.TrimSpace(completion.Text)
		out.Source = completion.Provider
	} else {
		log.Warn(ctx, "alert generation fell back to template", "error", err)
		out.AlertText = TemplateAlert(ev, price)
		out.Source = "template"
	}

	log.Warn(ctx, "low stock alert",
		"current_stock", ev.CurrentStock, "supplier_price", price, "source", out.Source, "alert", out.AlertText)
	return out, nil
}

func (p *Processor) supplierPrice(ctx context.Context, log logging.Logger) float64 {
	if p.prices == nil {
		return p.fallbackPrice
	}
	price, err := p.prices.Price(ctx)
	if err != nil {
		log.Error(ctx, "fetch price failed", "error", err, "fallback_price", p.fallbackPrice)
		return p.fallbackPrice
	}
	log.Info(ctx, "supplier price fetched", "price", price)
	return price
}

const alertSystemPrompt = "You are a professional inventory management assistant."

func alertPrompt(ev Event, price float64) llm.Prompt {
	user := fmt.Sprintf(`Write a low-stock alert message that is:
- professional and concise (2-3 lines at most)
- clear about the urgency
- includes the relevant product information and price

Product information:
- Name: %s
- Current stock: %d units
- Suggested supplier price: $%.2f
- Product ID: %s

Reply with the alert message only, without further explanation.`, ev.ProductName, ev.CurrentStock, price, ev.ProductID)

	return llm.Prompt{System: alertSystemPrompt, User: user, MaxTokens: 150, Temperature: 0.7}
}

// TemplateAlert is the deterministic message used when no provider answers.
func TemplateAlert(ev Event, price float64) string {
	return fmt.Sprintf(
		"LOW STOCK ALERT: product '%s' (ID: %s) has only %d units available. "+
			"Reorder is recommended immediately. Suggested supplier price: $%.2f",
		ev.ProductName, ev.ProductID, ev.CurrentStock, price)
}

