package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/db"
	"github.com/geocoder89/taskhub/internal/domain/task"
	apphttp "github.com/geocoder89/taskhub/internal/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testConfig() config.Config {
	return config.Config{
		Env:               "test",
		Port:              0,
		JWTSecret:         "test-secret-key",
		JWTTTLDays:        7,
		AllowedOrigins:    []string{"http://localhost:5173"},
		AuthRateLimit:     1000,
		AuthRateWindowSec: 60,
		MaxBodyBytes:      1 << 20,
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping DB-backed integration tests")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}

	t.Cleanup(pool.Close)

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouter(logger, pool, testConfig())

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE todos, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func registerUser(t *testing.T, router http.Handler, name, email, password string) string {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/api/auth/register",
		`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("register failed: status %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	mustReadJSON(t, w, &resp)

	if resp.Token == "" {
		t.Fatalf("register returned an empty token: %s", w.Body.String())
	}

	return resp.Token
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	token := registerUser(t, router, "Alice", "a@x.com", "secret1")

	// duplicate registration is rejected and the first record survives
	w := doRequest(router, http.MethodPost, "/api/auth/register",
		`{"name":"Mallory","email":"a@x.com","password":"other"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d body=%s", w.Code, w.Body.String())
	}

	// login with the right password
	w = doRequest(router, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"secret1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body=%s", w.Code, w.Body.String())
	}

	// wrong password and unknown email produce the same status and code
	for _, body := range []string{
		`{"email":"a@x.com","password":"wrong"}`,
		`{"email":"nobody@x.com","password":"secret1"}`,
	} {
		w = doRequest(router, http.MethodPost, "/api/auth/login", body, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("login %s: status %d body=%s", body, w.Code, w.Body.String())
		}
	}

	// profile under the registration token
	w = doRequest(router, http.MethodGet, "/api/auth/profile", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: status %d body=%s", w.Code, w.Body.String())
	}

	var profile struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	mustReadJSON(t, w, &profile)

	if profile.Name != "Alice" || profile.Email != "a@x.com" || profile.ID == "" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	// no token, garbage token
	for _, bad := range []string{"", "garbage"} {
		w = doRequest(router, http.MethodGet, "/api/auth/profile", "", bad)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("profile with token %q: status %d", bad, w.Code)
		}
	}
}

func TestTodoLifecycle(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	token := registerUser(t, router, "Alice", "a@x.com", "secret1")

	// starts empty
	w := doRequest(router, http.MethodGet, "/api/todo", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d body=%s", w.Code, w.Body.String())
	}

	var tasks []task.Task
	mustReadJSON(t, w, &tasks)
	if len(tasks) != 0 {
		t.Fatalf("expected empty list, got %+v", tasks)
	}

	// create
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	w = doRequest(router, http.MethodPost, "/api/todo",
		`{"title":"Buy milk","dueDate":"`+due.Format(time.RFC3339)+`"}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body=%s", w.Code, w.Body.String())
	}

	var created task.Task
	mustReadJSON(t, w, &created)

	if created.ID == "" || created.Title != "Buy milk" || created.IsCompleted {
		t.Fatalf("unexpected created task: %+v", created)
	}
	if !created.DueDate.Equal(due) {
		t.Fatalf("dueDate mismatch: got %v want %v", created.DueDate, due)
	}

	// complete it
	w = doRequest(router, http.MethodPut, "/api/todo/"+created.ID,
		`{"title":"Buy milk","dueDate":"`+due.Format(time.RFC3339)+`","isCompleted":true}`, token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("update: status %d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/todo", "", token)
	mustReadJSON(t, w, &tasks)
	if len(tasks) != 1 || !tasks[0].IsCompleted {
		t.Fatalf("task not completed after update: %+v", tasks)
	}

	// delete
	w = doRequest(router, http.MethodDelete, "/api/todo/"+created.ID, "", token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/todo", "", token)
	mustReadJSON(t, w, &tasks)
	if len(tasks) != 0 {
		t.Fatalf("task still present after delete: %+v", tasks)
	}

	// deleting again is a 404
	w = doRequest(router, http.MethodDelete, "/api/todo/"+created.ID, "", token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status %d body=%s", w.Code, w.Body.String())
	}
}

func TestTodoOwnershipIsolation(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	tokenA := registerUser(t, router, "Alice", "a@x.com", "secret1")
	tokenB := registerUser(t, router, "Bob", "b@x.com", "secret2")

	w := doRequest(router, http.MethodPost, "/api/todo", `{"title":"Alice's task"}`, tokenA)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body=%s", w.Code, w.Body.String())
	}

	var created task.Task
	mustReadJSON(t, w, &created)

	// Bob cannot see, update or delete Alice's task; responses must not
	// reveal that the task exists at all
	w = doRequest(router, http.MethodGet, "/api/todo", "", tokenB)
	var bobTasks []task.Task
	mustReadJSON(t, w, &bobTasks)
	if len(bobTasks) != 0 {
		t.Fatalf("Bob can see Alice's tasks: %+v", bobTasks)
	}

	w = doRequest(router, http.MethodPut, "/api/todo/"+created.ID,
		`{"title":"hijacked","dueDate":"2026-03-01T09:00:00Z","isCompleted":true}`, tokenB)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign update: status %d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodDelete, "/api/todo/"+created.ID, "", tokenB)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: status %d body=%s", w.Code, w.Body.String())
	}

	// Alice's task is untouched
	w = doRequest(router, http.MethodGet, "/api/todo", "", tokenA)
	var aliceTasks []task.Task
	mustReadJSON(t, w, &aliceTasks)
	if len(aliceTasks) != 1 || aliceTasks[0].Title != "Alice's task" || aliceTasks[0].IsCompleted {
		t.Fatalf("Alice's task was modified: %+v", aliceTasks)
	}
}
