package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/gameshop/internal/config"
	"github.com/example/gameshop/internal/utils"
)

// AdminHandler manages the admin dashboard login. The shop has a single
// admin credential pair held in configuration, not a users table.
type AdminHandler struct {
	cfg *config.Config
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{cfg: cfg}
}

// adminSubject is the fixed token subject for the admin account.
var adminSubject = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gameshop/admin"))

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the admin and issues a role-tagged session token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if h.cfg.AdminPasswordHash == "" {
		return fiber.NewError(fiber.StatusServiceUnavailable, "admin login is not configured")
	}

	if req.Username != h.cfg.AdminUsername || !utils.CheckPassword(h.cfg.AdminPasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, adminSubject, utils.RoleAdmin, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}
