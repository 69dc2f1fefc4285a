package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/nerdycapuchino/playgrid-sports/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *int) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	invocations := 0
	app.Post("/credits", func(c *fiber.Ctx) error {
		invocations++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"applied": true})
	})

	return app, &invocations
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/credits", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, invocations := setupTestApp(t)

	first := httptest.NewRequest(fiber.MethodPost, "/credits", strings.NewReader("{}"))
	first.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	first.Header.Set(idempotencyKeyHeader, "credit-abc")

	resp, err := app.Test(first)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	firstBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	// the repeated key replays the response; the mutation does not run again
	second := httptest.NewRequest(fiber.MethodPost, "/credits", strings.NewReader("{}"))
	second.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	second.Header.Set(idempotencyKeyHeader, "credit-abc")

	resp2, err := app.Test(second)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp2.StatusCode)
	secondBody, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	resp2.Body.Close()

	require.Equal(t, string(firstBody), string(secondBody))
	require.Equal(t, 1, *invocations)
}

func TestIdempotencyDistinctKeysRunIndependently(t *testing.T) {
	app, invocations := setupTestApp(t)

	for _, key := range []string{"k1", "k2"} {
		req := httptest.NewRequest(fiber.MethodPost, "/credits", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, key)

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	require.Equal(t, 2, *invocations)
}

func TestIdempotencySkipsSafeMethods(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Get("/balance", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"balance": 40})
	})

	// no Idempotency-Key needed on reads
	req := httptest.NewRequest(fiber.MethodGet, "/balance", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
