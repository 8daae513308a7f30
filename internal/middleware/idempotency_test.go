package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/notegenius/server/internal/logging"
)

func setupIdempotencyApp(t *testing.T) (*fiber.App, *int32, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	var hits int32
	app.Post("/resource", func(c *fiber.Ctx) error {
		atomic.AddInt32(&hits, 1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, &hits, cleanup
}

func postResource(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/resource", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, hits, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		status, _ := postResource(t, app, "")
		if status != fiber.StatusCreated {
			t.Fatalf("expected %d, got %d", fiber.StatusCreated, status)
		}
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Fatalf("expected handler to run twice, got %d", got)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, hits, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	status1, body1 := postResource(t, app, "abc123")
	status2, body2 := postResource(t, app, "abc123")

	if status1 != fiber.StatusCreated || status2 != fiber.StatusCreated {
		t.Fatalf("expected both requests to return %d, got %d and %d", fiber.StatusCreated, status1, status2)
	}
	if body1 != body2 {
		t.Fatalf("expected replayed body %q, got %q", body1, body2)
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected handler to run once, got %d", got)
	}
}

func TestIdempotencyDistinctKeys(t *testing.T) {
	app, hits, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	postResource(t, app, "key-a")
	postResource(t, app, "key-b")

	if got := atomic.LoadInt32(hits); got != 2 {
		t.Fatalf("expected handler to run for each key, got %d", got)
	}
}
