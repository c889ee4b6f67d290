package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/gameshop/internal/models"
	"github.com/example/gameshop/internal/utils"
)

// ProductHandler manages product catalog endpoints.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns paginated products. The storefront sees active
// products only; the admin passes ?all=true for the full catalog.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if c.Query("all") != "true" {
		query = query.Where("active = ?", true)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order asc, created_at asc")
		}).
		Order("display_order asc, created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct returns a single product with its variations in display order.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order asc, created_at asc")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(product)
}

type variationPayload struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price"`
	DisplayOrder  int      `json:"display_order"`
}

type productPayload struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Image        string             `json:"image"`
	Category     string             `json:"category"`
	SoldOut      bool               `json:"sold_out"`
	Active       *bool              `json:"active"`
	DisplayOrder int                `json:"display_order"`
	Variations   []variationPayload `json:"variations"`
}

func (p *productPayload) validate() error {
	if p.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	for _, v := range p.Variations {
		if v.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "variation price must not be negative")
		}
	}
	return nil
}

// CreateProduct persists a new product with its variations.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var payload productPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := payload.validate(); err != nil {
		return err
	}

	product := models.Product{
		Name:         payload.Name,
		Description:  payload.Description,
		Image:        payload.Image,
		Category:     payload.Category,
		SoldOut:      payload.SoldOut,
		Active:       true,
		DisplayOrder: payload.DisplayOrder,
	}
	if payload.Active != nil {
		product.Active = *payload.Active
	}
	for i, v := range payload.Variations {
		product.Variations = append(product.Variations, models.Variation{
			Name:          v.Name,
			Price:         v.Price,
			OriginalPrice: v.OriginalPrice,
			DisplayOrder:  i,
		})
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct replaces product fields and its variation set.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var payload productPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := payload.validate(); err != nil {
		return err
	}

	product.Name = payload.Name
	product.Description = payload.Description
	product.Image = payload.Image
	product.Category = payload.Category
	product.SoldOut = payload.SoldOut
	product.DisplayOrder = payload.DisplayOrder
	if payload.Active != nil {
		product.Active = *payload.Active
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Variation{}, "product_id = ?", product.ID).Error; err != nil {
			return err
		}
		for i, v := range payload.Variations {
			variation := models.Variation{
				ProductID:     product.ID,
				Name:          v.Name,
				Price:         v.Price,
				OriginalPrice: v.OriginalPrice,
				DisplayOrder:  i,
			}
			if err := tx.Create(&variation).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := h.db.Preload("Variations").First(&product, "id = ?", product.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product and its variations.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Variation{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
