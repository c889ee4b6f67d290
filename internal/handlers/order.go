package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/gameshop/internal/models"
	"github.com/example/gameshop/internal/services"
	"github.com/example/gameshop/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	telegram *services.TelegramService
	events   services.EventPublisher
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, telegram *services.TelegramService, events services.EventPublisher) *OrderHandler {
	return &OrderHandler{db: db, telegram: telegram, events: events}
}

type orderItemRequest struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Variation string `json:"variation"`
}

type createOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerEmail string             `json:"customer_email"`
	Items         []orderItemRequest `json:"items"`
	TotalAmount   int64              `json:"total_amount"`
	Remark        string             `json:"remark"`
}

// CreateOrder places an order. No authentication is required: the
// storefront collects name and phone in the order form itself. Item
// prices and the total arrive in paisa. The order is mirrored into
// Take.app before the response so the caller sees the sync outcome.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.CustomerName == "" || req.CustomerPhone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and phone are required")
	}

	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "order has no items")
	}

	order := models.Order{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Remark:        req.Remark,
		Status:        models.OrderStatusPending,
	}

	var computedTotal int64
	for _, item := range req.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		order.Items = append(order.Items, models.OrderItem{
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  quantity,
			Variation: item.Variation,
		})
		computedTotal += item.Price * int64(quantity)
	}

	order.TotalAmount = req.TotalAmount
	if order.TotalAmount == 0 {
		order.TotalAmount = computedTotal
	}

	// Link the order to an existing account by phone and keep the
	// aggregate counters in step.
	var customer models.Customer
	if err := h.db.Where("phone = ?", req.CustomerPhone).First(&customer).Error; err == nil {
		order.CustomerID = &customer.ID
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	if order.CustomerID != nil {
		if err := h.db.Model(&models.Customer{}).Where("id = ?", *order.CustomerID).
			Updates(map[string]interface{}{
				"total_orders": gorm.Expr("total_orders + 1"),
				"total_spent":  gorm.Expr("total_spent + ?", order.TotalAmount),
			}).Error; err != nil {
			log.Printf("[Order] Failed to update customer aggregates for order %s: %v", order.ID, err)
		}
	}

	h.mirrorToTakeApp(&order, req)

	go h.notifyAndPublish(order)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":              true,
		"order_id":             order.ID,
		"takeapp_synced":       order.TakeAppSynced,
		"takeapp_order_number": order.TakeAppOrderNumber,
	})
}

// mirrorToTakeApp pushes the order to Take.app and records the outcome
// on the order row. A sync failure never fails the order.
func (h *OrderHandler) mirrorToTakeApp(order *models.Order, req createOrderRequest) {
	if !services.TakeAppEnabled() {
		return
	}

	items := make([]services.TakeAppOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, services.TakeAppOrderItem{
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Variation: item.Variation,
		})
	}

	result, err := services.CreateTakeAppOrder(services.TakeAppOrderPayload{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Remark:        req.Remark,
	})

	now := time.Now()
	updates := map[string]interface{}{
		"takeapp_synced_at": &now,
	}

	if err != nil {
		log.Printf("[Order] Take.app sync failed for order %s: %v", order.ID, err)
		errMsg := err.Error()
		if len(errMsg) > 1024 {
			errMsg = errMsg[:1024]
		}
		updates["takeapp_sync_error"] = errMsg
	} else {
		log.Printf("[Order] Take.app order %s created for order %s", result.OrderNumber, order.ID)
		order.TakeAppSynced = true
		order.TakeAppOrderNumber = result.OrderNumber
		order.TakeAppSyncedAt = &now
		updates["takeapp_synced"] = true
		updates["takeapp_order_number"] = result.OrderNumber
		updates["takeapp_sync_error"] = ""
	}

	if err := h.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		log.Printf("[Order] Failed to record Take.app sync state for order %s: %v", order.ID, err)
	}
}

func (h *OrderHandler) notifyAndPublish(order models.Order) {
	if h.telegram != nil {
		items := make([]services.OrderItemNotification, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, services.OrderItemNotification{
				Name:      item.Name,
				Variation: item.Variation,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}

		notification := services.OrderNotification{
			OrderID:            order.ID.String(),
			Items:              items,
			TotalAmount:        order.TotalAmount,
			CustomerName:       order.CustomerName,
			CustomerPhone:      order.CustomerPhone,
			TakeAppOrderNumber: order.TakeAppOrderNumber,
			Status:             order.Status,
		}

		if err := h.telegram.NotifyNewOrder(notification); err != nil {
			log.Printf("[Order] Telegram notification failed: %v", err)
		}
	}

	if h.events != nil {
		event := services.OrderEvent{
			OrderID:       order.ID.String(),
			CustomerPhone: order.CustomerPhone,
			TotalAmount:   order.TotalAmount,
			ItemCount:     len(order.Items),
			CreatedAt:     order.CreatedAt,
		}
		if err := h.events.PublishOrderCreated(event); err != nil {
			log.Printf("[Order] Event publish failed: %v", err)
		}
	}
}

// ListOrders returns all orders for the admin dashboard.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order by ID.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order between pending, completed and cancelled.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.Status {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	result := h.db.Model(&models.Order{}).Where("id = ?", id).Update("status", req.Status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "order status updated"})
}
