package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/gameshop/internal/models"
	"github.com/example/gameshop/internal/utils"
)

// BundleHandler manages product bundle endpoints.
type BundleHandler struct {
	db *gorm.DB
}

// NewBundleHandler constructs BundleHandler.
func NewBundleHandler(db *gorm.DB) *BundleHandler {
	return &BundleHandler{db: db}
}

// ListBundles returns bundles; the storefront sees active ones only.
func (h *BundleHandler) ListBundles(c *fiber.Ctx) error {
	query := h.db.Model(&models.Bundle{})
	if c.Query("all") != "true" {
		query = query.Where("active = ?", true)
	}

	var bundles []models.Bundle
	if err := query.Order("created_at desc").Find(&bundles).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bundles})
}

type bundlePayload struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Products      []string `json:"products"`
	OriginalPrice float64  `json:"original_price"`
	BundlePrice   float64  `json:"bundle_price"`
	Active        *bool    `json:"active"`
}

func (p *bundlePayload) validate() error {
	if p.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	if p.OriginalPrice <= 0 || p.BundlePrice <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "original_price and bundle_price are required")
	}
	return nil
}

func (p *bundlePayload) apply(bundle *models.Bundle) {
	bundle.Title = p.Title
	bundle.Description = p.Description
	bundle.Image = p.Image
	bundle.Products = p.Products
	bundle.OriginalPrice = p.OriginalPrice
	bundle.BundlePrice = p.BundlePrice
	// Derived server-side so a stale client can never store a negative discount.
	bundle.DiscountPercentage = utils.DiscountPercent(p.OriginalPrice, p.BundlePrice)
	if p.Active != nil {
		bundle.Active = *p.Active
	}
}

// CreateBundle persists a new bundle.
func (h *BundleHandler) CreateBundle(c *fiber.Ctx) error {
	var payload bundlePayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := payload.validate(); err != nil {
		return err
	}

	bundle := models.Bundle{Active: true}
	payload.apply(&bundle)

	if err := h.db.Create(&bundle).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": bundle})
}

// UpdateBundle updates an existing bundle.
func (h *BundleHandler) UpdateBundle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var bundle models.Bundle
	if err := h.db.First(&bundle, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "bundle not found")
		}
		return err
	}

	var payload bundlePayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := payload.validate(); err != nil {
		return err
	}

	payload.apply(&bundle)
	if err := h.db.Save(&bundle).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bundle})
}

// DeleteBundle removes a bundle by ID.
func (h *BundleHandler) DeleteBundle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Bundle{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
