package storefront

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/example/gameshop/internal/utils"
)

// Product is the storefront view of a catalog product.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	SoldOut     bool        `json:"sold_out"`
	Variations  []Variation `json:"variations"`
}

// Variation is a purchasable plan of a product. Prices are rupees as
// served by the catalog; SubmitOrder converts to paisa.
type Variation struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price"`
}

// Discount returns the strike-through discount of this plan, or 0 when
// there is no original price to compare against.
func (v Variation) Discount() int {
	if v.OriginalPrice == nil {
		return 0
	}
	return utils.DiscountPercent(*v.OriginalPrice, v.Price)
}

// OrderForm holds the checkout fields. Name and Phone are required;
// Email and Remark are optional.
type OrderForm struct {
	Name   string
	Phone  string
	Email  string
	Remark string
}

func (f *OrderForm) reset() {
	*f = OrderForm{}
}

// OrderSummary is one entry of the customer's order history.
type OrderSummary struct {
	ID          string             `json:"id"`
	Status      string             `json:"status"`
	TotalAmount int64              `json:"total_amount"`
	Items       []OrderSummaryItem `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
}

// OrderSummaryItem is a line of a past order. Price is paisa per unit.
type OrderSummaryItem struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Variation string `json:"variation"`
}

// OrderResult reports a successful submission.
type OrderResult struct {
	OrderID            string `json:"order_id"`
	TakeAppSynced      bool   `json:"takeapp_synced"`
	TakeAppOrderNumber string `json:"takeapp_order_number"`
}

type orderItemPayload struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Variation string `json:"variation"`
}

type orderPayload struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Remark        string             `json:"remark,omitempty"`
	TotalAmount   int64              `json:"total_amount"`
	Items         []orderItemPayload `json:"items"`
}

// SubmitOrder places an order for one plan of a product. Name and phone
// are validated before any network call; the price is converted from
// rupees to paisa here so the backend only ever sees integer amounts.
// At most one submission is in flight per client; a concurrent call
// returns ErrBusy. The form is cleared only on success.
func (c *Client) SubmitOrder(ctx context.Context, form *OrderForm, product Product, variation Variation) (*OrderResult, error) {
	name := strings.TrimSpace(form.Name)
	phone := utils.DigitsOnly(form.Phone)
	if name == "" || phone == "" {
		return nil, ErrMissingFields
	}

	c.submitMu.Lock()
	if c.submitting {
		c.submitMu.Unlock()
		return nil, ErrBusy
	}
	c.submitting = true
	c.submitMu.Unlock()
	defer func() {
		c.submitMu.Lock()
		c.submitting = false
		c.submitMu.Unlock()
	}()

	price := utils.ToPaisa(variation.Price)
	payload := orderPayload{
		CustomerName:  name,
		CustomerPhone: phone,
		CustomerEmail: strings.TrimSpace(form.Email),
		Remark:        strings.TrimSpace(form.Remark),
		TotalAmount:   price,
		Items: []orderItemPayload{{
			Name:      product.Name,
			Price:     price,
			Quantity:  1,
			Variation: variation.Name,
		}},
	}

	var result OrderResult
	if err := c.do(ctx, http.MethodPost, "/api/orders", payload, c.Token(), &result); err != nil {
		return nil, err
	}

	form.reset()
	return &result, nil
}

// WhatsAppOrderLink builds the "order via WhatsApp" deep link for one
// plan, pre-filled with the product, plan and price.
func WhatsAppOrderLink(shopNumber string, product Product, variation Variation) string {
	return utils.WhatsAppOrderLink(shopNumber, product.Name, variation.Name, utils.ToPaisa(variation.Price))
}
