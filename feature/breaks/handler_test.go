package breaks

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	app := fiber.New()
	db, mock := setupMockDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	handler := NewHandler(svc, zap.NewNop())
	handler.RegisterRoutes(app)
	return app, mock
}

func TestHandleGetBreak(t *testing.T) {
	app, mock := setupTestApp(t)

	mock.ExpectQuery(".*").WillReturnRows(breakRow(StatusOpen))
	// Preloads: classifications, audits, comments.
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "break_item_id", "tag", "value"}).
		AddRow(1, 10, "product", "Payments"))
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "break_item_id"}))
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "break_item_id"}))
	// Definition and entries.
	mock.ExpectQuery(".*").WillReturnRows(definitionRow(true))
	mock.ExpectQuery(".*").WillReturnRows(entryRows(RoleMaker, "cn=makers,ou=groups,dc=corp"))

	req := httptest.NewRequest("GET", "/breaks/10", nil)
	req.Header.Set("X-User-Dn", "uid=alice,ou=people,dc=corp")
	req.Header.Set("X-User-Groups", "cn=makers,ou=groups,dc=corp")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body BreakDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []BreakStatus{StatusPendingApproval}, body.AllowedStatuses)
	assert.True(t, body.CanComment)
}

func TestHandleGetBreakDeniedWithoutScope(t *testing.T) {
	app, mock := setupTestApp(t)

	mock.ExpectQuery(".*").WillReturnRows(breakRow(StatusOpen))
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "break_item_id"}))
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "break_item_id"}))
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "break_item_id"}))
	mock.ExpectQuery(".*").WillReturnRows(definitionRow(true))

	// No groups header: no entries, no view.
	req := httptest.NewRequest("GET", "/breaks/10", nil)
	req.Header.Set("X-User-Dn", "uid=mallory,ou=people,dc=corp")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestHandleTransitionCommentRequired(t *testing.T) {
	app, _ := setupTestApp(t)

	payload := `{"status":"CLOSED","comment":""}`
	req := httptest.NewRequest("POST", "/breaks/10/status", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Dn", "uid=alice,ou=people,dc=corp")
	req.Header.Set("X-User-Groups", "cn=checkers,ou=groups,dc=corp")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleBulkRejectsEmptyIDs(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/breaks/bulk", strings.NewReader(`{"breakIds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestActorFromCtxParsesGroups(t *testing.T) {
	app := fiber.New()
	var actor Actor
	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor = actorFromCtx(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-User-Dn", "uid=alice,ou=people,dc=corp")
	req.Header.Set("X-User-Groups", "cn=a,ou=groups,dc=corp; cn=b,ou=groups,dc=corp ;")
	_, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, "uid=alice,ou=people,dc=corp", actor.Dn)
	assert.Equal(t, []string{"cn=a,ou=groups,dc=corp", "cn=b,ou=groups,dc=corp"}, actor.Groups)
}
