package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyCacheKey = "idempotency_cache_key"
	IdempotencyLockKey  = "idempotency_lock_key"
	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

// Idempotency replays the stored response for a repeated Idempotency-Key and
// rejects concurrent duplicates while the first request is still running.
// Handlers store their result with StoreIdempotentResult.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached any
			if json.Unmarshal([]byte(val), &cached) == nil {
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
		}

		// SetNX with a short expiry so a crashed request releases the lock.
		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err == nil && !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict, "Request with this idempotency key is still processing", nil)
			c.Abort()
			return
		}

		c.Set(IdempotencyCacheKey, cacheKey)
		c.Set(IdempotencyLockKey, lockKey)

		c.Next()

		_ = rdb.Del(ctx, lockKey).Err()
	}
}

// StoreIdempotentResult caches a successful response body under the key set
// by Idempotency. It is a no-op when the middleware did not run.
func StoreIdempotentResult(c *gin.Context, rdb *redis.Client, payload any) {
	if rdb == nil {
		return
	}
	cacheKey := c.GetString(IdempotencyCacheKey)
	if cacheKey == "" {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = rdb.Set(c.Request.Context(), cacheKey, data, idempotencyCacheTTL).Err()
}
