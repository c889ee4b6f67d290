package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/gameshop/internal/models"
	"github.com/example/gameshop/internal/services"
)

// TakeAppHandler provides the admin panel's view into the Take.app
// account: read-only proxies for store data and a product push.
type TakeAppHandler struct {
	db *gorm.DB
}

// NewTakeAppHandler constructs TakeAppHandler.
func NewTakeAppHandler(db *gorm.DB) *TakeAppHandler {
	return &TakeAppHandler{db: db}
}

// Store proxies the Take.app store profile.
func (h *TakeAppHandler) Store(c *fiber.Ctx) error {
	return h.proxy(c, "store")
}

// Orders proxies the Take.app order list.
func (h *TakeAppHandler) Orders(c *fiber.Ctx) error {
	return h.proxy(c, "orders")
}

// Inventory proxies the Take.app inventory.
func (h *TakeAppHandler) Inventory(c *fiber.Ctx) error {
	return h.proxy(c, "inventory")
}

// OrderStats proxies the Take.app order statistics.
func (h *TakeAppHandler) OrderStats(c *fiber.Ctx) error {
	return h.proxy(c, "orders/stats")
}

func (h *TakeAppHandler) proxy(c *fiber.Ctx, path string) error {
	if !services.TakeAppEnabled() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "take.app integration is disabled")
	}

	queryMap := make(map[string]string, len(c.Queries()))
	for k, v := range c.Queries() {
		queryMap[k] = v
	}

	resp, err := services.DoTakeAppRequest(services.TakeAppRequestOpts{
		Method: http.MethodGet,
		Path:   path,
		Query:  queryMap,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	c.Status(resp.Status)
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		c.Set("Content-Type", ct)
	}
	return c.Send(resp.Body)
}

type takeAppProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	SoldOut     bool    `json:"sold_out"`
	Variations  []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"variations"`
}

// SyncProducts pushes the local active catalog into Take.app so both
// storefronts show the same products.
func (h *TakeAppHandler) SyncProducts(c *fiber.Ctx) error {
	if !services.TakeAppEnabled() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "take.app integration is disabled")
	}

	var products []models.Product
	if err := h.db.Preload("Variations").
		Where("active = ?", true).
		Find(&products).Error; err != nil {
		return err
	}

	payload := make([]takeAppProduct, 0, len(products))
	for _, p := range products {
		item := takeAppProduct{
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
			SoldOut:     p.SoldOut,
		}
		for _, v := range p.Variations {
			item.Variations = append(item.Variations, struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			}{Name: v.Name, Price: v.Price})
		}
		payload = append(payload, item)
	}

	resp, err := services.DoTakeAppRequest(services.TakeAppRequestOpts{
		Method: http.MethodPost,
		Path:   "products/sync",
		Body:   fiber.Map{"products": payload},
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	if resp.Status < 200 || resp.Status >= 300 {
		return fiber.NewError(fiber.StatusBadGateway, "take.app product sync failed")
	}

	var result json.RawMessage = resp.Body
	return c.JSON(fiber.Map{
		"success": true,
		"synced":  len(payload),
		"result":  result,
	})
}
