package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/overwatch-coder/souppp-ecom/internal/clock"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/iorderrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/ioutboxrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/irestaurantrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/iuserrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/postgres"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/uow"
	"github.com/overwatch-coder/souppp-ecom/internal/service/delivery"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/intent"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/outbox"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/restaurant"
	"github.com/overwatch-coder/souppp-ecom/internal/service/notification"
	"github.com/spf13/viper"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// notifier is the dispatcher boundary: it delivers one rendered
// notification and returns the provider-assigned message id.
type notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	RestaurantRepository() irestaurantrepo.IRestaurantRepository
	UserRepository() iuserrepo.IUserRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// OrderService materializes orders from normalized payment intents and
// drives them through the fulfillment status lifecycle.
type OrderService struct {
	pgClient      *postgres.Client
	uowFactory    func() unitOfWork
	notifier      notifier
	clock         clock.Clock
	notifyTimeout time.Duration
	notifyWG      sync.WaitGroup
}

func (s *OrderService) newUOW() unitOfWork {
	return s.uowFactory()
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		clock:         clock.NewSystem(),
		notifyTimeout: 10 * time.Second,
	}

	if seconds := viper.GetInt("notifications.send_timeout_seconds"); seconds > 0 {
		s.notifyTimeout = time.Duration(seconds) * time.Second
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("ordersvc: no storage configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
		s.uowFactory = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithNotifier sets the notification dispatcher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithNotifier(n notifier) option {
	return func(s *OrderService) {
		s.notifier = n
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(c clock.Clock) option {
	return func(s *OrderService) {
		s.clock = c
	}
}

// CreateFromIntent idempotently materializes an order from a
// normalized payment intent. The bool result reports whether a new
// order was created; a replayed provider event returns the already
// persisted order without re-notifying.
func (s *OrderService) CreateFromIntent(ctx context.Context, in intent.Intent) (order.Order, bool, error) {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return order.Order{}, false, err
	}
	// No-op once the transaction is committed.
	defer func() { _ = work.Rollback(ctx) }()

	leadTime := ""
	rest, err := work.RestaurantRepository().GetByID(ctx, in.RestaurantID)
	switch {
	case err == nil:
		leadTime = rest.ExpectedDeliveryTime
	case errors.Is(err, restaurant.ErrRestaurantNotFound):
		// Restaurant read model may lag behind a paid order; fall back
		// to the default lead time rather than dropping the order.
		slog.Warn("Restaurant not found while creating order, using default lead time",
			"restaurant_id", in.RestaurantID,
			"reference", in.ExternalReference,
		)
	default:
		return order.Order{}, false, err
	}

	now := s.clock.Now()
	items := make([]order.OrderItem, 0, len(in.LineItems))
	for _, line := range in.LineItems {
		items = append(items, order.OrderItem{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			RestaurantID: line.RestaurantID,
		})
	}

	ord := order.Order{
		ID:          uuid.NewString(),
		TotalAmount: in.TotalAmount,
		OrderedDate: in.OccurredAt,
		Items:       items,
		Customer:    in.Customer,
		PaymentInfo: order.PaymentInfo{
			SessionID:     in.SessionID,
			PaymentIntent: in.PaymentIntentID,
			PaymentStatus: in.PaymentStatus,
			Customer:      in.CustomerRef,
			RestaurantID:  in.RestaurantID,
		},
		OrderStatus:          order.StatusPending,
		ExpectedDeliveryTime: delivery.ExpectedTime(leadTime, in.OccurredAt),
		PaymentBy:            in.Source,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	ord, err = work.OrderRepository().Insert(ctx, ord)
	if err != nil {
		if errors.Is(err, order.ErrDuplicateReference) {
			// The provider delivers webhooks at least once; a replay
			// resolves to the order the first delivery created.
			_ = work.Rollback(ctx)

			existing, getErr := s.findExisting(ctx, in)
			if getErr != nil {
				return order.Order{}, false, fmt.Errorf("failed to load existing order for %s: %w", in.ExternalReference, getErr)
			}

			return *existing, false, nil
		}

		return order.Order{}, false, err
	}

	if err := work.UserRepository().AppendOrder(ctx, ord.Customer.UserID, ord.ID); err != nil {
		return order.Order{}, false, err
	}

	if err := s.enqueueEvent(ctx, work.OutboxRepository(), EventOrderCreated, createdRoutingKey(), ord); err != nil {
		return order.Order{}, false, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, false, err
	}

	s.dispatch(ord.Customer.Email, notification.Confirmation(ord.ID, ord.TotalAmount, ord.Customer.Username))

	return ord, true, nil
}

// findExisting resolves the order a conflicting insert collided with.
// The two event kinds reference the same purchase through different
// ids, so every reference the intent carries is tried: a checkout
// session arriving after its payment intent only matches on the
// intent id, and vice versa.
func (s *OrderService) findExisting(ctx context.Context, in intent.Intent) (*order.Order, error) {
	repo := s.newUOW().OrderRepository()

	for _, ref := range []string{in.SessionID, in.PaymentIntentID} {
		if ref == "" {
			continue
		}

		existing, err := repo.GetByExternalReference(ctx, ref)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, order.ErrOrderNotFound) {
			return nil, err
		}
	}

	return nil, order.ErrOrderNotFound
}

// TransitionStatus applies a merchant-driven status change and
// dispatches the transition-specific notification.
func (s *OrderService) TransitionStatus(
	ctx context.Context,
	merchantID string,
	orderID string,
	target order.Status,
	claimedRestaurantID string,
) (order.Order, error) {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	ord, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}

	rest, err := work.RestaurantRepository().GetByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, restaurant.ErrRestaurantNotFound) {
			return order.Order{}, order.ErrNoRestaurant
		}

		return order.Order{}, err
	}

	if rest.ID != claimedRestaurantID || ord.PaymentInfo.RestaurantID != rest.ID {
		return order.Order{}, order.ErrNotRestaurantOwner
	}

	if !ord.OrderStatus.CanTransitionTo(target) {
		return order.Order{}, fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, ord.OrderStatus, target)
	}

	updated, err := work.OrderRepository().UpdateStatus(ctx, orderID, target)
	if err != nil {
		return order.Order{}, err
	}

	if err := s.enqueueEvent(ctx, work.OutboxRepository(), EventOrderStatusChanged, statusChangedRoutingKey(), *updated); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	s.dispatch(updated.Customer.Email, s.statusMessage(*updated))

	return *updated, nil
}

// statusMessage builds the notification matching the order's new
// status.
func (s *OrderService) statusMessage(ord order.Order) notification.Message {
	name := ord.Customer.Name

	switch ord.OrderStatus {
	case order.StatusProcessing:
		return notification.StatusChange(ord.ID, name, ord.OrderStatus.String())
	case order.StatusShipped:
		etaDays := viper.GetInt("delivery.shipped_eta_days")
		if etaDays == 0 {
			etaDays = 3
		}

		return notification.Shipped(
			ord.ID,
			name,
			notification.NewTrackingNumber(),
			notification.Carrier,
			delivery.ExpectedDate(s.clock.Now(), etaDays),
			ord.Customer.Address.City,
		)
	case order.StatusDelivered:
		address := fmt.Sprintf("%s, %s %s",
			ord.Customer.Address.Line1,
			ord.Customer.Address.City,
			ord.Customer.Address.PostalCode,
		)

		return notification.OutForDelivery(
			ord.ID,
			name,
			notification.NewTrackingNumber(),
			notification.Carrier,
			ord.ExpectedDeliveryTime,
			address,
		)
	default:
		return notification.Confirmation(ord.ID, ord.TotalAmount, name)
	}
}

// GetOrders lists a customer's orders, newest first.
func (s *OrderService) GetOrders(ctx context.Context, userID string, page, limit int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	return s.newUOW().OrderRepository().Query(ctx, &order.Query{
		CustomerUserID: userID,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	})
}

// GetOrder retrieves one order owned by the given customer email.
func (s *OrderService) GetOrder(ctx context.Context, orderID, email string) (order.Order, error) {
	ord, err := s.newUOW().OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}

	if ord.Customer.Email != email {
		return order.Order{}, order.ErrOrderNotFound
	}

	return *ord, nil
}

// GetOrdersByRestaurant lists the orders of the merchant's restaurant.
func (s *OrderService) GetOrdersByRestaurant(
	ctx context.Context,
	merchantID string,
	restaurantID string,
	page, limit int,
) ([]order.Order, error) {
	work := s.newUOW()

	rest, err := work.RestaurantRepository().GetByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, restaurant.ErrRestaurantNotFound) {
			return nil, order.ErrNoRestaurant
		}

		return nil, err
	}
	if rest.ID != restaurantID {
		return nil, order.ErrNotRestaurantOwner
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	return work.OrderRepository().Query(ctx, &order.Query{
		RestaurantID: restaurantID,
		Limit:        limit,
		Offset:       (page - 1) * limit,
	})
}

// DeleteOrder removes an order on behalf of the purchasing customer.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, email string) error {
	return s.newUOW().OrderRepository().DeleteByOwner(ctx, orderID, email)
}

// Close waits for in-flight notification dispatches to drain.
func (s *OrderService) Close() {
	s.notifyWG.Wait()
}

// dispatch sends a notification without blocking the caller. Failures
// are logged and never surfaced: the persisted state change must not
// depend on mail delivery.
func (s *OrderService) dispatch(email string, msg notification.Message) {
	if s.notifier == nil {
		slog.Warn("No notifier configured, dropping notification", "email", email, "subject", msg.Subject)

		return
	}

	s.notifyWG.Add(1)
	go func() {
		defer s.notifyWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		messageID, err := s.notifier.Send(ctx, email, msg.Subject, msg.HTML)
		if err != nil {
			slog.Error("Failed to send order notification", "email", email, "subject", msg.Subject, "error", err)

			return
		}

		slog.Info("Order notification sent", "email", email, "subject", msg.Subject, "message_id", messageID)
	}()
}

// orderEvent is the payload published for downstream consumers.
type orderEvent struct {
	EventID      string    `json:"eventId"`
	EventType    string    `json:"eventType"`
	OrderID      string    `json:"orderId"`
	RestaurantID string    `json:"restaurantId"`
	OrderStatus  string    `json:"orderStatus"`
	TotalAmount  float64   `json:"totalAmount"`
	OccurredAt   time.Time `json:"occurredAt"`
}

func (s *OrderService) enqueueEvent(
	ctx context.Context,
	repo ioutboxrepo.IOutboxRepository,
	eventType string,
	routingKey string,
	ord order.Order,
) error {
	now := s.clock.Now()

	payload, err := json.Marshal(orderEvent{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		OrderID:      ord.ID,
		RestaurantID: ord.PaymentInfo.RestaurantID,
		OrderStatus:  ord.OrderStatus.String(),
		TotalAmount:  ord.TotalAmount,
		OccurredAt:   now,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 10
	}

	return repo.Insert(ctx, outbox.Message{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		AggregateID:  ord.ID,
		ExchangeName: viper.GetString("rabbitmq.orders.exchange"),
		RoutingKey:   routingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   maxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	})
}

func createdRoutingKey() string {
	if key := viper.GetString("rabbitmq.orders.created_routing_key"); key != "" {
		return key
	}

	return EventOrderCreated
}

func statusChangedRoutingKey() string {
	if key := viper.GetString("rabbitmq.orders.status_changed_routing_key"); key != "" {
		return key
	}

	return EventOrderStatusChanged
}
