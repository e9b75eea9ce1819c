package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiterRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit_Bypass(t *testing.T) {
	for _, env := range []string{"test", "development", "stress"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			d, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, d.Allowed)
		})
	}
}

func TestCheckRateLimit_NilRedis(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1", 1, time.Minute)
	assert.ErrorIs(t, err, errNoRateLimitStore)
}

func TestCheckRateLimit_FixedWindow(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr, rdb := newLimiterRedis(t)
	ctx := context.Background()

	first, err := CheckRateLimit(ctx, rdb, "signin", "user:4", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, Decision{Allowed: true, Limit: 2, Remaining: 1, ResetIn: time.Minute}, first)

	mr.FastForward(20 * time.Second)
	second, err := CheckRateLimit(ctx, rdb, "signin", "user:4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Zero(t, second.Remaining)
	assert.Equal(t, 40*time.Second, second.ResetIn, "later hits must not extend the window")

	third, err := CheckRateLimit(ctx, rdb, "signin", "user:4", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, third.Allowed)

	other, err := CheckRateLimit(ctx, rdb, "signin", "user:5", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "buckets are per id")

	mr.FastForward(41 * time.Second)
	again, err := CheckRateLimit(ctx, rdb, "signin", "user:4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, again.Allowed)
}

func TestRateLimitMiddleware_FailurePolicies(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	app := fiber.New()
	app.Get("/open", RateLimit(nil, 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/closed", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/closed", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestRateLimitMiddleware_CommentBurst(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr, rdb := newLimiterRedis(t)

	app := fiber.New()
	app.Post("/comments/:blogId",
		func(c *fiber.Ctx) error {
			if c.Get("X-User") != "" {
				c.Locals(LocalUserID, uint(9))
			}
			return c.Next()
		},
		RateLimit(rdb, 2, time.Minute, "create_comment"),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) },
	)

	post := func(user bool) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/comments/1", nil)
		if user {
			req.Header.Set("X-User", "1")
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp
	}

	assert.Equal(t, http.StatusCreated, post(true).StatusCode)
	second := post(true)
	assert.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, "0", second.Header.Get("X-RateLimit-Remaining"))

	limited := post(true)
	assert.Equal(t, http.StatusTooManyRequests, limited.StatusCode)
	assert.Equal(t, "60", limited.Header.Get(fiber.HeaderRetryAfter))

	// Anonymous callers are bucketed by IP, apart from the signed-in user.
	assert.Equal(t, http.StatusCreated, post(false).StatusCode)

	keys := mr.Keys()
	require.Len(t, keys, 2)
	assert.Contains(t, keys, "rl:create_comment:user:9")
	assert.True(t, strings.HasPrefix(keys[0], "rl:create_comment:ip:"), keys[0])

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusCreated, post(true).StatusCode)
}
