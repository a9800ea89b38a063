package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cacheKey := "idemp:/employees::key-1"
	lockKey := cacheKey + ":lock"

	newRouter := func(rdb *redis.Client, called *bool) *gin.Engine {
		r := gin.New()
		r.POST("/employees", middleware.Idempotency(rdb), func(c *gin.Context) {
			*called = true
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})
		return r
	}

	t.Run("replays cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"id":"EMP-1"}`)

		called := false
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		newRouter(rdb, &called).ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "EMP-1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects concurrent duplicate", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		called := false
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		newRouter(rdb, &called).ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("first request runs and releases lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		called := false
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		newRouter(rdb, &called).ServeHTTP(w, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without header passes through", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		called := false
		w := httptest.NewRecorder()
		newRouter(rdb, &called).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees", nil))
		assert.True(t, called)
	})
}
