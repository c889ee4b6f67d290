package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/gameshop/internal/config"
	"github.com/example/gameshop/internal/database"
	"github.com/example/gameshop/internal/handlers"
	"github.com/example/gameshop/internal/routes"
	"github.com/example/gameshop/internal/utils"
)

// newTestApp builds a fully routed app over a throwaway sqlite database,
// mirroring how main wires the server against Postgres.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gameshop.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Environment:   "test",
		JWTSecret:     "test-secret",
		TokenExpires:  time.Hour,
		AdminUsername: "admin",
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.Register(app, db, cfg, nil)

	return app, db, cfg
}

// doRequest performs one request against the app and decodes the JSON
// response into a generic map.
func doRequest(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(respBody) > 0 {
		require.NoError(t, json.Unmarshal(respBody, &decoded), "body: %s", respBody)
	}

	return resp.StatusCode, decoded
}

func adminToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := utils.GenerateToken(cfg.JWTSecret, uuid.New(), utils.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return token
}

func customerToken(t *testing.T, cfg *config.Config, customerID uuid.UUID) string {
	t.Helper()
	token, err := utils.GenerateToken(cfg.JWTSecret, customerID, utils.RoleCustomer, time.Hour)
	require.NoError(t, err)
	return token
}
