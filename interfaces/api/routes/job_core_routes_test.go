package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobcore-api/application/serviceimpl"
	"jobcore-api/domain/models"
	"jobcore-api/infrastructure/catalog"
	natspkg "jobcore-api/infrastructure/nats"
	"jobcore-api/infrastructure/postgres"
	"jobcore-api/interfaces/api/handlers"
	"jobcore-api/pkg/authz"
	"jobcore-api/pkg/scheduler"
	"jobcore-api/pkg/utils"
)

const testSecret = "test-secret"

func strPtr(s string) *string { return &s }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Driver:   postgres.DriverSQLite,
		Path:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cat := catalog.NewStatic(
		models.TaskDefinition{
			Name:        "nightly-report",
			Description: strPtr("Builds the sales digest"),
			Command:     strPtr("python reports/nightly.py"),
			Cron:        strPtr("0 2 * * *"),
			ServiceName: strPtr("reports"),
		},
		models.TaskDefinition{Name: "cleanup", SQL: strPtr("DELETE FROM sessions")},
	)

	executionRepo := postgres.NewExecutionRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	publisher := natspkg.NoopPublisher{}
	sched := scheduler.NewEventScheduler()

	h := handlers.NewHandlers(&handlers.Services{
		TaskService:      serviceimpl.NewTaskService(cat, scheduleRepo, executionRepo),
		ExecutionService: serviceimpl.NewExecutionService(executionRepo, cat, publisher),
		Publisher:        publisher,
		QueueMonitor:     serviceimpl.NewQueueMonitorService(serviceimpl.QueueMonitorConfig{}, executionRepo, publisher, sched),
		Scheduler:        sched,
	})

	policy := authz.NewPolicy(map[string][]string{
		"admin":    authz.DefaultAdminGrants,
		"viewer":   {"job-core.read.scope.all"},
		"operator": {"job-core.read.scope.all", "job-core.list.execute"},
		// entity-level none beats pack-level all
		"auditor": {"job-core.read.scope.all", "job-core.task.read.scope.none"},
	})

	return NewApp(h, Options{
		AppName:    "job-core-test",
		Guard:      authz.NewGuard(policy),
		JWTSecret:  testSecret,
		AuthCookie: "hit_token",
	})
}

func tokenFor(t *testing.T, email string, roles ...string) string {
	t.Helper()
	token, err := utils.SignIdentityToken(&models.Identity{Subject: email, Email: email, Roles: roles}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestAuthentication(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/api/v1/job-core/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])

	status, _ = do(t, app, http.MethodGet, "/api/v1/job-core/tasks", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	expired, err := utils.SignIdentityToken(&models.Identity{Subject: "bob", Roles: []string{"admin"}}, testSecret, -time.Minute)
	require.NoError(t, err)
	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/tasks", expired, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has expired", body["error"])

	// cookie works the same as the header
	req := httptest.NewRequest(http.MethodGet, "/api/v1/job-core/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "hit_token", Value: tokenFor(t, "alice@example.com", "viewer")})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthorization(t *testing.T) {
	app := newTestApp(t)
	viewer := tokenFor(t, "vic@example.com", "viewer")
	auditor := tokenFor(t, "aud@example.com", "auditor")
	nobody := tokenFor(t, "nobody@example.com")

	status, _ := do(t, app, http.MethodGet, "/api/v1/job-core/tasks", viewer, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodPut, "/api/v1/job-core/tasks/nightly-report/schedule", viewer, `{"enabled": false}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, app, http.MethodPost, "/api/v1/job-core/tasks/nightly-report/run", viewer, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, app, http.MethodGet, "/api/v1/job-core/tasks", auditor, "")
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = do(t, app, http.MethodGet, "/api/v1/job-core/executions", auditor, "")
	assert.Equal(t, http.StatusOK, status)

	status, body := do(t, app, http.MethodGet, "/api/v1/job-core/executions", nobody, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.NotEmpty(t, body["error"])
}

func TestScheduleToggle(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "root@example.com", "admin")

	status, body := do(t, app, http.MethodGet, "/api/v1/job-core/tasks/nightly-report", admin, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["enabled"])
	assert.NotNil(t, body["next_run"])
	assert.Equal(t, "nightly-report", body["id"])

	status, body = do(t, app, http.MethodPut, "/api/v1/job-core/tasks/nightly-report/schedule", admin, `{"enabled": false}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "nightly-report", body["task_name"])
	assert.Equal(t, false, body["schedule_enabled"])
	assert.Equal(t, false, body["enabled"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/tasks/nightly-report", admin, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["enabled"])
	assert.Nil(t, body["next_run"])

	status, body = do(t, app, http.MethodPut, "/api/v1/job-core/tasks/nightly-report/schedule", admin, `{"schedule_enabled": true}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["enabled"])

	status, _ = do(t, app, http.MethodPut, "/api/v1/job-core/tasks/nightly-report/schedule", admin, `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPut, "/api/v1/job-core/tasks/nightly-report/schedule", admin, `{"enabled": `)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, app, http.MethodPut, "/api/v1/job-core/tasks/ghost/schedule", admin, `{"enabled": false}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ghost", body["task_name"])
	assert.Equal(t, false, body["schedule_enabled"])
	assert.Equal(t, true, body["enabled"])
}

func TestRunAndReadExecution(t *testing.T) {
	app := newTestApp(t)
	alice := tokenFor(t, "alice@example.com", "operator")

	status, body := do(t, app, http.MethodPost, "/api/v1/job-core/tasks/nightly-report/run", alice, "")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "queued", body["status"])
	assert.Equal(t, "alice@example.com", body["triggered_by"])
	assert.Equal(t, "reports", body["service_name"])
	assert.Equal(t, "", body["logs"])
	assert.Nil(t, body["started_at"])
	assert.Nil(t, body["completed_at"])
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	status, body = do(t, app, http.MethodPost, "/api/v1/job-core/tasks/cleanup/run", alice, `{"triggeredBy": "cron"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "cron", body["triggered_by"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/executions/"+id, alice, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "nightly-report", body["task_name"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/executions?taskName=nightly-report", alice, "")
	require.Equal(t, http.StatusOK, status)
	items, _ := body["items"].([]any)
	assert.Len(t, items, 1)
	pagination, _ := body["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["total"])
	assert.Equal(t, float64(50), pagination["pageSize"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/tasks?search=NIGHTLY", alice, "")
	require.Equal(t, http.StatusOK, status)
	items, _ = body["items"].([]any)
	require.Len(t, items, 1)
	task, _ := items[0].(map[string]any)
	assert.Equal(t, id, task["latest_execution_id"])
	assert.Equal(t, "queued", task["latest_status"])
	assert.NotNil(t, task["last_run"])
}

func TestRunErrors(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "root@example.com", "admin")

	status, body := do(t, app, http.MethodPost, "/api/v1/job-core/tasks/ghost/run", admin, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", body["error"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/executions", admin, "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, _ = do(t, app, http.MethodPost, "/api/v1/job-core/tasks/cleanup/run", admin, `{"triggered_by": `)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExecutionLookupErrors(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "root@example.com", "admin")

	status, _ := do(t, app, http.MethodGet, "/api/v1/job-core/executions/not-a-uuid", admin, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body := do(t, app, http.MethodGet, "/api/v1/job-core/executions/"+uuid.NewString(), admin, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Execution not found", body["error"])

	status, _ = do(t, app, http.MethodGet, "/api/v1/job-core/executions?status=paused", admin, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/api/v1/job-core/executions?status=QUEUED&page=abc&pageSize=1000", admin, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestExecutionListPagingEdges(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "root@example.com", "admin")

	status, _ := do(t, app, http.MethodPost, "/api/v1/job-core/tasks/nightly-report/run", admin, "")
	require.Equal(t, http.StatusCreated, status)

	// a page past the end is empty, never page 1 relabelled
	status, body := do(t, app, http.MethodGet, "/api/v1/job-core/executions?page=9223372036854775807", admin, "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])
	pagination, _ := body["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["total"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/executions?pageSize=0", admin, "")
	require.Equal(t, http.StatusOK, status)
	items, _ := body["items"].([]any)
	assert.Len(t, items, 1)
	pagination, _ = body["pagination"].(map[string]any)
	assert.Equal(t, float64(50), pagination["pageSize"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/tasks?pageSize=-3", admin, "")
	require.Equal(t, http.StatusOK, status)
	pagination, _ = body["pagination"].(map[string]any)
	assert.Equal(t, float64(25), pagination["pageSize"])
}

func TestHealthAndMonitoring(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/monitoring/queue", tokenFor(t, "root@example.com", "admin"), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "JOB_CORE_EXECUTIONS", body["stream"])
	assert.Equal(t, float64(0), body["stale_queued"])

	status, body = do(t, app, http.MethodGet, "/api/v1/job-core/nope", tokenFor(t, "root@example.com", "admin"), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])
}
