package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/gameshop/internal/models"
)

// AnalyticsHandler serves the admin dashboard panels. Each endpoint is
// independent so the dashboard can fetch them concurrently.
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// Overview returns aggregate shop statistics. Revenue figures are paisa
// and exclude cancelled orders.
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	var totalCustomers int64
	if err := h.db.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	var totalProducts int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}

	var totalRevenue int64
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var ordersToday int64
	if err := h.db.Model(&models.Order{}).
		Where("date(created_at) = CURRENT_DATE").
		Count(&ordersToday).Error; err != nil {
		return err
	}

	var revenueToday int64
	if err := h.db.Model(&models.Order{}).
		Where("status != ? AND date(created_at) = CURRENT_DATE", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenueToday).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_customers": totalCustomers,
			"total_orders":    totalOrders,
			"total_products":  totalProducts,
			"total_revenue":   totalRevenue,
			"orders_today":    ordersToday,
			"revenue_today":   revenueToday,
		},
	})
}

// TopProducts returns the best-selling items by quantity across
// non-cancelled orders.
func (h *AnalyticsHandler) TopProducts(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	type productStat struct {
		Name     string `json:"name"`
		Quantity int64  `json:"quantity"`
		Revenue  int64  `json:"revenue"`
	}

	var stats []productStat
	if err := h.db.Model(&models.OrderItem{}).
		Select("order_items.name, SUM(order_items.quantity) as quantity, SUM(order_items.price * order_items.quantity) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status != ?", models.OrderStatusCancelled).
		Group("order_items.name").
		Order("quantity desc").
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// RevenueChart returns daily revenue for the last N days (default 7).
func (h *AnalyticsHandler) RevenueChart(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}
	if days > 365 {
		days = 365
	}

	since := time.Now().AddDate(0, 0, -days+1).Truncate(24 * time.Hour)

	type dayRevenue struct {
		Date    string `json:"date"`
		Revenue int64  `json:"revenue"`
		Orders  int64  `json:"orders"`
	}

	var rows []dayRevenue
	if err := h.db.Model(&models.Order{}).
		Select("date(created_at) as date, COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as orders").
		Where("status != ? AND created_at >= ?", models.OrderStatusCancelled, since).
		Group("date(created_at)").
		Order("date asc").
		Scan(&rows).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rows})
}

// OrderStatus returns order counts grouped by status.
func (h *AnalyticsHandler) OrderStatus(c *fiber.Ctx) error {
	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	var counts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return err
	}

	byStatus := make(map[string]int64, len(counts))
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}

	return c.JSON(fiber.Map{"success": true, "data": byStatus})
}
