package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/adminauth/internal/domain/models"
	redisconn "github.com/turtacn/adminauth/internal/infrastructure/persistence/redis"
	"github.com/turtacn/adminauth/internal/interfaces/http/middleware"
	"github.com/turtacn/adminauth/pkg/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func getJSON(t *testing.T, handler gin.HandlerFunc, pre ...gin.HandlerFunc) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", append(pre, handler)...)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthHandler(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redisconn.NewRedisConnectionFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), logger.NewNoopLogger())

	h := NewHealthHandler(map[string]Pinger{
		"database": pingFunc(func(context.Context) error { return nil }),
		"redis":    rc,
		"skipped":  nil,
	}, nil)

	code, body := getJSON(t, h.HealthCheck)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]interface{}{"database": "ok", "redis": "ok"}, body["checks"])

	mr.Close()
	code, body = getJSON(t, h.ReadinessCheck)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "error", body["checks"].(map[string]interface{})["redis"])

	code, body = getJSON(t, h.LivenessCheck)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body["status"])
}

func TestMeHandler(t *testing.T) {
	h := NewMeHandler()

	code, body := getJSON(t, h.Me)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body["code"])

	exp := time.Unix(1_700_003_600, 0)
	identity := models.NewAuthenticatedIdentity(models.Principal{Identifier: "9999999999", Role: "admin"}, exp)
	install := func(c *gin.Context) {
		c.Request = c.Request.WithContext(models.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}

	code, body = getJSON(t, h.Me, install)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "9999999999", body["identifier"])
	assert.Equal(t, []interface{}{"ROLE_ADMIN"}, body["authorities"])
	assert.Equal(t, "2023-11-14T23:13:20Z", body["expires_at"])

	_, ok := middleware.IdentityFromContext(context.Background())
	assert.False(t, ok)
}
