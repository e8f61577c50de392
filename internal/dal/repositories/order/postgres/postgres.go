package postgresrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/postgres"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	ID                   string
	TotalAmount          float64
	OrderedDate          time.Time
	Customer             []byte
	PaymentSessionID     string
	PaymentIntent        string
	PaymentStatus        string
	PaymentCustomer      string
	RestaurantID         string
	OrderStatus          string
	ExpectedDeliveryTime string
	PaymentBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	var customer order.Customer
	if err := json.Unmarshal(o.Customer, &customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer snapshot: %w", err)
	}

	return &order.Order{
		ID:          o.ID,
		TotalAmount: o.TotalAmount,
		OrderedDate: o.OrderedDate,
		Customer:    customer,
		PaymentInfo: order.PaymentInfo{
			SessionID:     o.PaymentSessionID,
			PaymentIntent: o.PaymentIntent,
			PaymentStatus: order.PaymentStatus(o.PaymentStatus),
			Customer:      o.PaymentCustomer,
			RestaurantID:  o.RestaurantID,
		},
		OrderStatus:          order.Status(o.OrderStatus),
		ExpectedDeliveryTime: o.ExpectedDeliveryTime,
		PaymentBy:            order.PaymentSource(o.PaymentBy),
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
		Items:                []order.OrderItem{}, // Populated separately
	}, nil
}

var orderColumns = []string{
	"id",
	"total_amount",
	"ordered_date",
	"customer",
	"payment_session_id",
	"payment_intent",
	"payment_status",
	"payment_customer",
	"restaurant_id",
	"order_status",
	"expected_delivery_time",
	"payment_by",
	"created_at",
	"updated_at",
}

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	conn postgres.Querier
}

// NewOrderRepository creates a new order repository bound to the given
// connection or transaction.
func NewOrderRepository(conn postgres.Querier) *OrderRepository {
	return &OrderRepository{
		conn: conn,
	}
}

// Insert persists an order with its items. A unique-constraint
// violation on either provider reference maps to
// order.ErrDuplicateReference so the caller can recover the existing
// order instead of creating a duplicate.
func (r *OrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to encode customer snapshot: %w", err)
	}

	query, args, err := sq.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID,
			o.TotalAmount,
			o.OrderedDate,
			customer,
			o.PaymentInfo.SessionID,
			o.PaymentInfo.PaymentIntent,
			o.PaymentInfo.PaymentStatus.String(),
			o.PaymentInfo.Customer,
			o.PaymentInfo.RestaurantID,
			o.OrderStatus.String(),
			o.ExpectedDeliveryTime,
			o.PaymentBy.String(),
			o.CreatedAt,
			o.UpdatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return order.Order{}, order.ErrDuplicateReference
		}

		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	if len(o.Items) > 0 {
		builder := sq.Insert("order_items").
			Columns("order_id", "product_id", "quantity", "restaurant_id")
		for _, item := range o.Items {
			builder = builder.Values(o.ID, item.ProductID, item.Quantity, item.RestaurantID)
		}

		query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
		if err != nil {
			return order.Order{}, fmt.Errorf("failed to build items insert query: %w", err)
		}

		if _, err := r.conn.Exec(ctx, query, args...); err != nil {
			return order.Order{}, fmt.Errorf("failed to insert order items: %w", err)
		}
	}

	return o, nil
}

// GetByID retrieves a single order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByExternalReference finds the order created for a provider
// reference, whichever event kind delivered it.
func (r *OrderRepository) GetByExternalReference(ctx context.Context, ref string) (*order.Order, error) {
	return r.getOne(ctx, sq.Or{
		sq.Eq{"payment_session_id": ref},
		sq.Eq{"payment_intent": ref},
	})
}

func (r *OrderRepository) getOne(ctx context.Context, where any) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	if err := scanOrder(r.conn.QueryRow(ctx, query, args...), &dal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, []string{model.ID})
	if err != nil {
		return nil, err
	}
	model.Items = items[model.ID]

	return model, nil
}

// UpdateStatus sets the order status and returns the updated order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	query, args, err := sq.Update("orders").
		Set("order_status", status.String()).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	var dal OrderDal
	if err := scanOrder(r.conn.QueryRow(ctx, query, args...), &dal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, []string{model.ID})
	if err != nil {
		return nil, err
	}
	model.Items = items[model.ID]

	return model, nil
}

// Query retrieves orders based on filter criteria, newest first.
func (r *OrderRepository) Query(ctx context.Context, filter *order.Query) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.CustomerUserID != "" {
		builder = builder.Where(sq.Expr("customer ->> 'user' = ?", filter.CustomerUserID))
	}
	if filter.RestaurantID != "" {
		builder = builder.Where(sq.Eq{"restaurant_id": filter.RestaurantID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	var ids []string
	for rows.Next() {
		var dal OrderDal
		if err := scanOrder(rows, &dal); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *model)
		ids = append(ids, model.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(result) == 0 {
		return []order.Order{}, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}

	return result, nil
}

// DeleteByOwner removes an order if the requesting email owns it.
func (r *OrderRepository) DeleteByOwner(ctx context.Context, id, email string) error {
	query, args, err := sq.Delete("orders").
		Where(sq.Eq{"id": id}).
		Where(sq.Expr("customer ->> 'email' = ?", email)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]order.OrderItem, error) {
	query, args, err := sq.Select("order_id", "product_id", "quantity", "restaurant_id").
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]order.OrderItem)
	for rows.Next() {
		var orderID string
		var item order.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.RestaurantID); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

func scanOrder(row pgx.Row, dal *OrderDal) error {
	return row.Scan(
		&dal.ID,
		&dal.TotalAmount,
		&dal.OrderedDate,
		&dal.Customer,
		&dal.PaymentSessionID,
		&dal.PaymentIntent,
		&dal.PaymentStatus,
		&dal.PaymentCustomer,
		&dal.RestaurantID,
		&dal.OrderStatus,
		&dal.ExpectedDeliveryTime,
		&dal.PaymentBy,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
}
