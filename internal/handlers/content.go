package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/gameshop/internal/models"
	"github.com/example/gameshop/internal/utils"
)

// ContentHandler manages blog posts, contact links, payment method
// badges and the site notification bar.
type ContentHandler struct {
	db *gorm.DB
}

// NewContentHandler constructs ContentHandler.
func NewContentHandler(db *gorm.DB) *ContentHandler {
	return &ContentHandler{db: db}
}

// Blog posts

// ListBlogPosts returns paginated blog posts, published only for the
// storefront, everything for the admin (?all=true).
func (h *ContentHandler) ListBlogPosts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.BlogPost{})
	if c.Query("all") != "true" {
		query = query.Where("published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var posts []models.BlogPost
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&posts).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    posts,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetBlogPost returns a single published post by slug.
func (h *ContentHandler) GetBlogPost(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var post models.BlogPost
	if err := h.db.First(&post, "slug = ? AND published = ?", slug, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": post})
}

type blogPostPayload struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Image     string `json:"image"`
	Published *bool  `json:"published"`
}

// CreateBlogPost persists a new post. A missing slug is derived from the title.
func (h *ContentHandler) CreateBlogPost(c *fiber.Ctx) error {
	var payload blogPostPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	post := models.BlogPost{
		Title:     payload.Title,
		Slug:      payload.Slug,
		Excerpt:   payload.Excerpt,
		Content:   payload.Content,
		Image:     payload.Image,
		Published: true,
	}
	if post.Slug == "" {
		post.Slug = slugify(payload.Title)
	}
	if payload.Published != nil {
		post.Published = *payload.Published
	}

	if err := h.db.Create(&post).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": post})
}

// UpdateBlogPost updates an existing post.
func (h *ContentHandler) UpdateBlogPost(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var post models.BlogPost
	if err := h.db.First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
		return err
	}

	var payload blogPostPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Title != "" {
		post.Title = payload.Title
	}
	if payload.Slug != "" {
		post.Slug = payload.Slug
	}
	post.Excerpt = payload.Excerpt
	post.Content = payload.Content
	post.Image = payload.Image
	if payload.Published != nil {
		post.Published = *payload.Published
	}

	if err := h.db.Save(&post).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": post})
}

// DeleteBlogPost removes a post by ID.
func (h *ContentHandler) DeleteBlogPost(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.BlogPost{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Contact links

func (h *ContentHandler) ListContactLinks(c *fiber.Ctx) error {
	query := h.db.Model(&models.ContactLink{})
	if c.Query("all") != "true" {
		query = query.Where("active = ?", true)
	}

	var links []models.ContactLink
	if err := query.Order("display_order asc").Find(&links).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": links})
}

type contactLinkPayload struct {
	Label        string `json:"label"`
	URL          string `json:"url"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active"`
}

func (h *ContentHandler) CreateContactLink(c *fiber.Ctx) error {
	var payload contactLinkPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.Label == "" || payload.URL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "label and url are required")
	}

	link := models.ContactLink{
		Label:        payload.Label,
		URL:          payload.URL,
		Icon:         payload.Icon,
		DisplayOrder: payload.DisplayOrder,
		Active:       true,
	}
	if payload.Active != nil {
		link.Active = *payload.Active
	}

	if err := h.db.Create(&link).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": link})
}

func (h *ContentHandler) UpdateContactLink(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	var link models.ContactLink
	if err := h.db.First(&link, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "contact link not found")
		}
		return err
	}
	if err := c.BodyParser(&link); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	link.ID = id
	if err := h.db.Save(&link).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": link})
}

func (h *ContentHandler) DeleteContactLink(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.Delete(&models.ContactLink{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Payment method badges

func (h *ContentHandler) ListPaymentMethods(c *fiber.Ctx) error {
	query := h.db.Model(&models.PaymentMethod{})
	if c.Query("all") != "true" {
		query = query.Where("active = ?", true)
	}

	var methods []models.PaymentMethod
	if err := query.Order("display_order asc").Find(&methods).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": methods})
}

type paymentMethodPayload struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active"`
}

func (h *ContentHandler) CreatePaymentMethod(c *fiber.Ctx) error {
	var payload paymentMethodPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	method := models.PaymentMethod{
		Name:         payload.Name,
		Image:        payload.Image,
		DisplayOrder: payload.DisplayOrder,
		Active:       true,
	}
	if payload.Active != nil {
		method.Active = *payload.Active
	}

	if err := h.db.Create(&method).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": method})
}

func (h *ContentHandler) UpdatePaymentMethod(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	var method models.PaymentMethod
	if err := h.db.First(&method, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "payment method not found")
		}
		return err
	}
	if err := c.BodyParser(&method); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	method.ID = id
	if err := h.db.Save(&method).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": method})
}

func (h *ContentHandler) DeletePaymentMethod(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.Delete(&models.PaymentMethod{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Notification bar (singleton)

// GetNotificationBar returns the site-wide announcement strip, creating
// the singleton row on first access.
func (h *ContentHandler) GetNotificationBar(c *fiber.Ctx) error {
	bar, err := h.loadNotificationBar()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": bar})
}

type notificationBarPayload struct {
	Message string `json:"message"`
	Link    string `json:"link"`
	Enabled *bool  `json:"enabled"`
}

// UpdateNotificationBar updates the singleton announcement strip.
func (h *ContentHandler) UpdateNotificationBar(c *fiber.Ctx) error {
	var payload notificationBarPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	bar, err := h.loadNotificationBar()
	if err != nil {
		return err
	}

	bar.Message = payload.Message
	bar.Link = payload.Link
	if payload.Enabled != nil {
		bar.Enabled = *payload.Enabled
	}

	if err := h.db.Save(bar).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bar})
}

func (h *ContentHandler) loadNotificationBar() (*models.NotificationBar, error) {
	var bar models.NotificationBar
	err := h.db.Order("created_at asc").First(&bar).Error
	if err == gorm.ErrRecordNotFound {
		bar = models.NotificationBar{Enabled: false}
		if err := h.db.Create(&bar).Error; err != nil {
			return nil, err
		}
		return &bar, nil
	}
	if err != nil {
		return nil, err
	}
	return &bar, nil
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	return strings.Trim(slug, "-")
}
