package order

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(f *serviceFixture, staff gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(web.RequestID())
	NewHandler(f.service, logger.Discard()).RegisterRoutes(r.Group("/api/v1"), staff)
	return r
}

func asStaff(username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("username", username)
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerCreateOrder(t *testing.T) {
	f := newServiceFixture()
	r := newTestRouter(f, asStaff("alice"))

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		TableID: f.table.ID,
		Items:   []models.OrderLineItem{f.largeMomo(2)},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StatusPending, got.Status)
	assert.True(t, money("13").Equal(got.TotalAmount))
}

func TestHandlerErrorStatuses(t *testing.T) {
	pending := existingOrder(models.StatusPending)
	complete := existingOrder(models.StatusComplete)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{name: "malformed id", method: http.MethodGet, path: "/api/v1/orders/not-a-uuid", want: http.StatusBadRequest},
		{name: "missing order", method: http.MethodGet, path: "/api/v1/orders/" + uuid.NewString(), want: http.StatusNotFound},
		{name: "append to complete", method: http.MethodPost, path: "/api/v1/orders/" + complete.ID.String() + "/items", body: map[string]interface{}{
			"items": []map[string]interface{}{{"item": uuid.NewString(), "quantity": 1, "price": 1}},
		}, want: http.StatusConflict},
		{name: "unknown status", method: http.MethodPatch, path: "/api/v1/orders/" + pending.ID.String() + "/status", body: map[string]string{"status": "eaten"}, want: http.StatusBadRequest},
		{name: "illegal transition", method: http.MethodPatch, path: "/api/v1/orders/" + pending.ID.String() + "/status", body: map[string]string{"status": "served"}, want: http.StatusConflict},
		{name: "bad limit", method: http.MethodGet, path: "/api/v1/orders?limit=abc", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(pending, complete)
			r := newTestRouter(f, asStaff("alice"))

			w := doJSON(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestHandlerAppendItems(t *testing.T) {
	existing := existingOrder(models.StatusServed)
	f := newServiceFixture(existing)
	r := newTestRouter(f, asStaff("alice"))

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders/"+existing.ID.String()+"/items", models.AppendItemsRequest{
		Items: []models.OrderLineItem{f.largeMomo(1)},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, money("106.50").Equal(got.TotalAmount))
	assert.Len(t, got.Items, 2)
}

func TestHandlerUpdateStatusRecordsStaff(t *testing.T) {
	existing := existingOrder(models.StatusPending)
	f := newServiceFixture(existing)
	r := newTestRouter(f, asStaff("bob"))

	w := doJSON(t, r, http.MethodPatch, "/api/v1/orders/"+existing.ID.String()+"/status", models.StatusUpdateRequest{Status: "preparing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, f.publisher.statuses, 1)
	assert.Equal(t, "bob", f.publisher.statuses[0].ChangedBy)
}

func TestHandlerStatusRouteRunsStaffGuard(t *testing.T) {
	existing := existingOrder(models.StatusPending)
	f := newServiceFixture(existing)
	deny := func(c *gin.Context) {
		web.WriteError(c, logger.Discard(), "unauthorized", models.ErrUnauthorized)
	}
	r := newTestRouter(f, deny)

	w := doJSON(t, r, http.MethodPatch, "/api/v1/orders/"+existing.ID.String()+"/status", models.StatusUpdateRequest{Status: "preparing"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, f.repo.updates)
}

func TestHandlerListOrdersEmpty(t *testing.T) {
	f := newServiceFixture()
	r := newTestRouter(f, asStaff("alice"))

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders?table="+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
