package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/metrics"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	orders  map[uuid.UUID][]models.StatusLogEntry
	workers []models.Worker
	err     error
}

func (s *fakeStore) OrderExists(_ context.Context, id uuid.UUID) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.orders[id]
	return ok, nil
}

func (s *fakeStore) History(_ context.Context, id uuid.UUID) ([]models.StatusLogEntry, error) {
	return s.orders[id], s.err
}

func (s *fakeStore) Workers(context.Context) ([]models.Worker, error) {
	return s.workers, s.err
}

func (s *fakeStore) Ping(context.Context) error {
	return s.err
}

// sequenceFetcher returns the given statuses in order, repeating the last one.
type sequenceFetcher struct {
	mu       sync.Mutex
	id       uuid.UUID
	statuses []models.OrderStatus
	calls    int
}

func (f *sequenceFetcher) FetchOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if id != f.id {
		return nil, &models.NotFoundError{Resource: "order", ID: id.String()}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.calls++
	return &models.Order{ID: id, OrderNumber: "ORD_20240101_001", Status: f.statuses[i]}, nil
}

func newTestServer(t *testing.T, store Store, fetcher *sequenceFetcher) *httptest.Server {
	t.Helper()
	svc := NewService(store, fetcher, logger.Discard(), metrics.New(), time.Millisecond)
	h := NewHandler(svc, logger.Discard())

	r := gin.New()
	r.Use(web.RequestID())
	r.GET("/health", h.HealthCheck)
	h.RegisterRoutes(r.Group("/api/v1"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetOrderHistory(t *testing.T) {
	known := uuid.New()
	store := &fakeStore{orders: map[uuid.UUID][]models.StatusLogEntry{
		known: {
			{Status: models.StatusPending, ChangedBy: "customer"},
			{Status: models.StatusPreparing, ChangedBy: "kitchen-1"},
		},
	}}
	srv := newTestServer(t, store, &sequenceFetcher{})

	tests := []struct {
		name string
		path string
		want int
		n    int
	}{
		{name: "known order", path: "/api/v1/orders/" + known.String() + "/history", want: http.StatusOK, n: 2},
		{name: "unknown order", path: "/api/v1/orders/" + uuid.NewString() + "/history", want: http.StatusNotFound},
		{name: "bad id", path: "/api/v1/orders/xyz/history", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.want, resp.StatusCode)

			if tt.want == http.StatusOK {
				var history []models.StatusLogEntry
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
				assert.Len(t, history, tt.n)
				assert.Equal(t, models.StatusPreparing, history[1].Status)
			}
		})
	}
}

func TestGetOrderHistoryStoreFailure(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("db down")}, &sequenceFetcher{}, logger.Discard(), nil, time.Second)

	_, err := svc.GetOrderHistory(context.Background(), uuid.New(), "req")
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestGetWorkerStatusMarksStaleWorkersOffline(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{workers: []models.Worker{
		{Name: "kitchen-1", Status: models.WorkerOnline, LastSeen: now.Add(-10 * time.Second), TicketsAccepted: 4},
		{Name: "kitchen-2", Status: models.WorkerOnline, LastSeen: now.Add(-5 * time.Minute)},
		{Name: "kitchen-3", Status: models.WorkerOffline, LastSeen: now},
	}}
	svc := NewService(store, &sequenceFetcher{}, logger.Discard(), nil, time.Second)
	svc.now = func() time.Time { return now }

	got, err := svc.GetWorkerStatus(context.Background(), "req")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, models.WorkerOnline, got[0].Status)
	assert.Equal(t, 4, got[0].TicketsAccepted)
	assert.Equal(t, models.WorkerOffline, got[1].Status)
	assert.Equal(t, models.WorkerOffline, got[2].Status)
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "healthy", want: http.StatusOK},
		{name: "database down", err: errors.New("refused"), want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeStore{err: tt.err}, &sequenceFetcher{})
			resp, err := http.Get(srv.URL + "/health")
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestStreamOrderPushesChangesAndClosesAtTerminal(t *testing.T) {
	id := uuid.New()
	fetcher := &sequenceFetcher{id: id, statuses: []models.OrderStatus{
		models.StatusPending, models.StatusPending, models.StatusPreparing, models.StatusPreparing, models.StatusComplete,
	}}
	srv := newTestServer(t, &fakeStore{}, fetcher)
	conn := dial(t, srv, "/api/v1/orders/"+id.String()+"/stream")

	var events []StreamEvent
	for {
		var ev StreamEvent
		if err := conn.ReadJSON(&ev); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		events = append(events, ev)
	}

	require.Len(t, events, 3)
	assert.Equal(t, EventSnapshot, events[0].Type)
	assert.Equal(t, models.StatusPending, events[0].Order.Status)

	assert.Equal(t, EventStatusChanged, events[1].Type)
	assert.Equal(t, models.StatusPending, events[1].OldStatus)
	assert.Equal(t, models.StatusPreparing, events[1].Order.Status)

	assert.Equal(t, models.StatusPreparing, events[2].OldStatus)
	assert.Equal(t, models.StatusComplete, events[2].Order.Status)
}

func TestStreamOrderTerminalOrderClosesAfterSnapshot(t *testing.T) {
	id := uuid.New()
	fetcher := &sequenceFetcher{id: id, statuses: []models.OrderStatus{models.StatusCancelled}}
	srv := newTestServer(t, &fakeStore{}, fetcher)
	conn := dial(t, srv, "/api/v1/orders/"+id.String()+"/stream")

	var ev StreamEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventSnapshot, ev.Type)

	err := conn.ReadJSON(&ev)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.Equal(t, 1, fetcher.calls)
}

func TestStreamOrderUnknownOrder(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &sequenceFetcher{id: uuid.New(), statuses: []models.OrderStatus{models.StatusPending}})

	resp, err := http.Get(srv.URL + "/api/v1/orders/" + uuid.NewString() + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
