package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/metrics"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/pricing"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/order/internal/validation"
)

const defaultListLimit = 50

// Repository is the order persistence used by Service.
type Repository interface {
	AppendStore
	Create(ctx context.Context, tableID uuid.UUID, items []models.OrderLineItem, total models.Money) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, tableID *uuid.UUID, limit int) ([]models.Order, error)
	// UpdateStatus moves the order from one status to another, failing with ErrInvalidState
	// if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, changedBy, notes string) (*models.Order, error)
}

// Catalog resolves menu items and tables referenced by orders.
type Catalog interface {
	GetMenuItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error)
	GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error)
}

// Publisher notifies the kitchen and status subscribers.
type Publisher interface {
	PublishKitchenTicket(ctx context.Context, ticket *models.KitchenTicket) error
	PublishStatusUpdate(ctx context.Context, msg *models.StatusUpdateMessage) error
}

// Service implements order placement, additions, and staff status changes.
type Service struct {
	repo       Repository
	catalog    Catalog
	publisher  Publisher
	aggregator *Aggregator
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

func NewService(repo Repository, catalog Catalog, publisher Publisher, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:       repo,
		catalog:    catalog,
		publisher:  publisher,
		aggregator: NewAggregator(repo, log, m),
		logger:     log,
		metrics:    m,
	}
}

// CreateOrder opens a pending order for a table.
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateOrderRequest, requestID string) (*models.Order, error) {
	if err := validation.ValidateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetTable(ctx, req.TableID); err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Create(ctx, req.TableID, items, pricing.ItemsTotal(items))
	if err != nil {
		return nil, &models.PersistenceError{Op: "create order", Err: err}
	}

	s.metrics.OrderCreated()
	s.logger.Info("order_created", "Order created", requestID, map[string]interface{}{
		"order_number": order.OrderNumber,
		"table":        order.TableID.String(),
		"total_amount": order.TotalAmount.String(),
	})

	s.publishTicket(ctx, order, order.Items, false, requestID)
	return order, nil
}

// AppendItems adds lines to an open order. An empty list returns the order unchanged.
func (s *Service) AppendItems(ctx context.Context, id uuid.UUID, req *models.AppendItemsRequest, requestID string) (*models.Order, error) {
	if err := validation.ValidateItems(req.Items); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return current, nil
	}

	if current.Status.IsTerminal() {
		return nil, &models.InvalidStateError{OrderID: id.String(), Status: current.Status, Op: "add items to"}
	}

	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	next, err := s.aggregator.Append(ctx, current, items)
	if err != nil {
		return nil, err
	}

	added := next.Items
	if n := len(next.Items) - len(items); n >= 0 {
		added = next.Items[n:]
	}
	s.publishTicket(ctx, next, added, true, requestID)
	return next, nil
}

// resolveItems checks lines against the catalog and fills in item names.
func (s *Service) resolveItems(ctx context.Context, items []models.OrderLineItem) ([]models.OrderLineItem, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Item)
	}

	catalog, err := s.catalog.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}

	if err := validation.ValidateAgainstCatalog(items, catalog); err != nil {
		return nil, err
	}

	out := make([]models.OrderLineItem, len(items))
	for i, item := range items {
		item.Name = catalog[item.Item].Name
		if item.Customizations == nil {
			item.Customizations = []models.Customization{}
		}
		out[i] = item
	}
	return out, nil
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.Get(ctx, id)
}

// FetchOrder lets the service act as the status sync source.
func (s *Service) FetchOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, tableID *uuid.UUID, limit int) ([]models.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, tableID, limit)
}

// TransitionStatus applies a staff status change if the state machine allows it.
func (s *Service) TransitionStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus, changedBy, notes, requestID string) (*models.Order, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(to) {
		return nil, &models.InvalidStateError{
			OrderID: id.String(),
			Status:  current.Status,
			Op:      fmt.Sprintf("move to %s", to),
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to, changedBy, notes)
	if err != nil {
		return nil, err
	}

	s.metrics.StatusTransition(string(current.Status), string(to))
	s.logger.Info("order_status_changed", fmt.Sprintf("Order %s moved to %s", updated.OrderNumber, to), requestID, map[string]interface{}{
		"order_number": updated.OrderNumber,
		"old_status":   string(current.Status),
		"new_status":   string(to),
		"changed_by":   changedBy,
	})

	msg := models.NewStatusUpdateMessage(updated, current.Status, changedBy)
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		s.logger.Error("notification_publish_failed", "Failed to publish status update", requestID, err, map[string]interface{}{
			"order_number": updated.OrderNumber,
		})
	}

	return updated, nil
}

func (s *Service) publishTicket(ctx context.Context, order *models.Order, items []models.OrderLineItem, addition bool, requestID string) {
	ticket := models.NewKitchenTicket(order, items, addition)
	if err := s.publisher.PublishKitchenTicket(ctx, ticket); err != nil {
		s.logger.Error("ticket_publish_failed", "Failed to publish kitchen ticket", requestID, err, map[string]interface{}{
			"order_number": order.OrderNumber,
			"addition":     addition,
		})
	}
}
