package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"example.com/bistro/services/restaurant/internal/models"
	"example.com/bistro/services/restaurant/internal/tracing"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	EventNewOrder     = "newOrder"
	EventOrderUpdated = "orderUpdated"
)

// OrderService handles order lifecycle business logic
type OrderService struct {
	orderRepo   OrderRepo
	menuRepo    MenuRepo
	staffRepo   StaffRepo
	gate        RestaurantGate
	stats       StatsRecorder
	broadcaster Broadcaster
	publisher   EventPublisher
	orderIndex  OrderIndex
	tracer      tracing.Tracer
	now         func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo OrderRepo,
	menuRepo MenuRepo,
	staffRepo StaffRepo,
	gate RestaurantGate,
	stats StatsRecorder,
	broadcaster Broadcaster,
	publisher EventPublisher,
	orderIndex OrderIndex,
	tracer tracing.Tracer,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		menuRepo:    menuRepo,
		staffRepo:   staffRepo,
		gate:        gate,
		stats:       stats,
		broadcaster: broadcaster,
		publisher:   publisher,
		orderIndex:  orderIndex,
		tracer:      tracer,
		now:         time.Now,
	}
}

// OrderItemInput is one line of an incoming order
type OrderItemInput struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderInput is the payload for placing an order
type CreateOrderInput struct {
	CustomerName    string           `json:"customer_name" binding:"required"`
	CustomerPhone   string           `json:"customer_phone" binding:"required"`
	CustomerAddress string           `json:"customer_address" binding:"required"`
	Notes           string           `json:"notes"`
	Items           []OrderItemInput `json:"items" binding:"required"`
}

// orderEvent is the message body forwarded to the queue for async indexing
type orderEvent struct {
	OrderID uuid.UUID          `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
}

// CreateOrder validates and persists a new order. The whole order is
// rejected if the restaurant is closed or any line references a missing
// or unavailable menu item; nothing is written in that case.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.Order, error) {
	txn := s.tracer.StartTransaction("create-order")
	defer s.tracer.EndTransaction(txn)

	open, err := s.gate.IsOpen(ctx)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to check restaurant status")
	}
	if !open {
		return nil, ErrRestaurantClosed
	}

	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}

	span := s.tracer.StartSpan("validate-order-items", txn)
	items := make([]models.OrderItem, 0, len(input.Items))
	var totalCents int64
	for _, line := range input.Items {
		if line.Quantity < 1 {
			span.End()
			return nil, ErrInvalidQuantity
		}
		menuItem, err := s.menuRepo.GetByID(ctx, line.MenuItemID)
		if err != nil {
			span.End()
			return nil, errors.Wrapf(ErrMenuItemNotFound, "menu item %s", line.MenuItemID)
		}
		if !menuItem.Available {
			span.End()
			return nil, errors.Wrapf(ErrMenuItemUnavailable, "menu item %s", menuItem.Name)
		}
		items = append(items, models.OrderItem{
			ID:         uuid.New(),
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			PriceCents: menuItem.PriceCents,
			Quantity:   line.Quantity,
		})
		totalCents += menuItem.PriceCents * int64(line.Quantity)
	}
	span.End()

	orderNumber, err := s.generateOrderNumber(ctx)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		Notes:           input.Notes,
		Items:           items,
		TotalCents:      totalCents,
		Status:          models.StatusPending,
	}

	createSpan := s.tracer.StartSpan("create-order", txn)
	err = s.orderRepo.Create(ctx, order)
	createSpan.End()
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to create order")
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int64("total_cents", order.TotalCents).
		Int("items", len(order.Items)).
		Msg("Order created successfully")

	s.broadcaster.Emit(EventNewOrder, order)

	return order, nil
}

// UpdateStatus transitions an order to the given status. A transition to
// Delivered folds the order total into the business stats exactly once;
// repeating the same transition is a no-op for the stats. Delivered and
// Cancelled both release any assigned delivery staff back to active.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	txn := s.tracer.StartTransaction("update-order-status")
	defer s.tracer.EndTransaction(txn)

	if !status.Valid() {
		return nil, errors.Wrapf(ErrInvalidStatus, "status %q", status)
	}

	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	previous := current.Status

	updated, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to update order status")
	}

	if status == models.StatusDelivered && previous != models.StatusDelivered {
		statsSpan := s.tracer.StartSpan("record-delivered-stats", txn)
		err = s.stats.RecordDelivered(ctx, updated.TotalCents, s.now())
		statsSpan.End()
		if err != nil {
			s.tracer.RecordError(txn, err)
			log.Error().
				Err(err).
				Str("order_id", id.String()).
				Msg("Failed to record delivered order stats")
		}

		s.publishOrderEvent(ctx, updated)
	}

	if status == models.StatusDelivered || status == models.StatusCancelled {
		s.releaseDeliveryStaff(ctx, updated)
	}

	log.Info().
		Str("order_id", id.String()).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("Order status updated")

	s.broadcaster.Emit(EventOrderUpdated, updated)

	return updated, nil
}

// releaseDeliveryStaff returns an assigned staff member to the active
// pool once their order reaches a terminal status
func (s *OrderService) releaseDeliveryStaff(ctx context.Context, order *models.Order) {
	if order.DeliveryStaffID == nil {
		return
	}
	ok, err := s.staffRepo.SetStatusIf(ctx, *order.DeliveryStaffID, models.StaffBusy, models.StaffActive)
	if err != nil {
		log.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("staff_id", order.DeliveryStaffID.String()).
			Msg("Failed to release delivery staff")
		return
	}
	if !ok {
		log.Warn().
			Str("staff_id", order.DeliveryStaffID.String()).
			Msg("Delivery staff was not busy when released")
	}
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(orderEvent{OrderID: order.ID, Status: order.Status})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal order event")
		return
	}
	if err := s.publisher.SendMessage(ctx, body); err != nil {
		log.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("Failed to publish order event, reconciler will pick it up")
	}
}

// AssignDelivery hands an order to an active delivery staff member and
// moves the order to Out for Delivery. The staff member is flipped to
// busy with a conditional update, so two concurrent assignments of the
// same person cannot both succeed; if the order update then fails the
// flip is undone.
func (s *OrderService) AssignDelivery(ctx context.Context, orderID, staffID uuid.UUID) (*models.Order, error) {
	txn := s.tracer.StartTransaction("assign-delivery")
	defer s.tracer.EndTransaction(txn)

	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, ErrOrderNotFound
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidStaffID, "staff %s", staffID)
	}
	if staff.Role != models.RoleDelivery {
		return nil, errors.Wrapf(ErrInvalidStaffID, "user %s is not delivery staff", staffID)
	}

	claimed, err := s.staffRepo.SetStatusIf(ctx, staffID, models.StaffActive, models.StaffBusy)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to claim delivery staff")
	}
	if !claimed {
		return nil, ErrStaffNotAvailable
	}

	order, err := s.orderRepo.AssignDelivery(ctx, orderID, staffID)
	if err != nil {
		if _, releaseErr := s.staffRepo.SetStatusIf(ctx, staffID, models.StaffBusy, models.StaffActive); releaseErr != nil {
			log.Error().
				Err(releaseErr).
				Str("staff_id", staffID.String()).
				Msg("Failed to release staff after assignment failure")
		}
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to assign delivery staff")
	}

	log.Info().
		Str("order_id", orderID.String()).
		Str("staff_id", staffID.String()).
		Msg("Order assigned for delivery")

	s.broadcaster.Emit(EventOrderUpdated, order)

	return order, nil
}

// Track finds an order by its public order number. A leading "#" is
// accepted and stripped.
func (s *OrderService) Track(ctx context.Context, orderNumber string) (*models.Order, error) {
	number := strings.TrimPrefix(strings.TrimSpace(orderNumber), "#")
	order, err := s.orderRepo.GetByOrderNumber(ctx, number)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrder loads one order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns all orders, newest first
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.List(ctx)
}

// ListOrdersByStatus returns all orders currently in the given status
func (s *OrderService) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if !status.Valid() {
		return nil, errors.Wrapf(ErrInvalidStatus, "status %q", status)
	}
	return s.orderRepo.ListByStatus(ctx, status)
}

// RecentOrders returns the latest few orders for the dashboard
func (s *OrderService) RecentOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.ListRecent(ctx, 4)
}

// MyOrders returns the orders assigned to one delivery staff member
func (s *OrderService) MyOrders(ctx context.Context, staffID uuid.UUID) ([]models.Order, error) {
	return s.orderRepo.ListByDeliveryStaff(ctx, staffID)
}

// StatusOverview counts orders per status; every status appears in the
// result even with a zero count
func (s *OrderService) StatusOverview(ctx context.Context) (map[models.OrderStatus]int64, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count orders by status")
	}
	overview := make(map[models.OrderStatus]int64, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		overview[status] = counts[status]
	}
	return overview, nil
}

// TotalRevenue sums the totals of all delivered orders
func (s *OrderService) TotalRevenue(ctx context.Context) (int64, error) {
	return s.orderRepo.DeliveredRevenueCents(ctx)
}

// DeleteAllOrders wipes every order. Used by the admin dashboard's reset.
func (s *OrderService) DeleteAllOrders(ctx context.Context) (int64, error) {
	deleted, err := s.orderRepo.DeleteAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete orders")
	}
	log.Warn().Int64("deleted", deleted).Msg("All orders deleted")
	return deleted, nil
}

// ProcessOrderMessage handles one queued order event: index the order
// for search and mark it indexed
func (s *OrderService) ProcessOrderMessage(ctx context.Context, message *azservicebus.ReceivedMessage, txn *newrelic.Transaction) error {
	var event orderEvent
	if err := json.Unmarshal(message.Body, &event); err != nil {
		return errors.Wrap(err, "failed to unmarshal order event")
	}

	order, err := s.orderRepo.GetByID(ctx, event.OrderID)
	if err != nil {
		return errors.Wrap(err, "failed to load order for indexing")
	}

	span := s.tracer.StartSpan("index-order", txn)
	err = s.orderIndex.IndexOrder(ctx, order)
	span.End()
	if err != nil {
		return errors.Wrap(err, "failed to index order")
	}

	if err := s.orderRepo.MarkIndexed(ctx, order.ID); err != nil {
		return errors.Wrap(err, "failed to mark order as indexed")
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Msg("Order indexed successfully")

	return nil
}

// ReconcileIndex indexes delivered orders the queue path missed
func (s *OrderService) ReconcileIndex(ctx context.Context) error {
	txn := s.tracer.StartTransaction("reconcile-order-index")
	defer s.tracer.EndTransaction(txn)

	orders, err := s.orderRepo.ListUnindexedDelivered(ctx, 100)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return errors.Wrap(err, "failed to list unindexed orders")
	}

	if len(orders) == 0 {
		return nil
	}

	log.Info().Msgf("Found %d unindexed delivered orders for reconciliation", len(orders))

	for i := range orders {
		order := &orders[i]
		if err := s.orderIndex.IndexOrder(ctx, order); err != nil {
			log.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Msg("Failed to index order during reconciliation")
			s.tracer.RecordError(txn, err)
			continue
		}
		if err := s.orderRepo.MarkIndexed(ctx, order.ID); err != nil {
			log.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Msg("Failed to mark order as indexed during reconciliation")
			s.tracer.RecordError(txn, err)
		}
	}

	return nil
}
