package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/iorderrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/ioutboxrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/irestaurantrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/iuserrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/postgres"
	orderrepo "github.com/overwatch-coder/souppp-ecom/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/overwatch-coder/souppp-ecom/internal/dal/repositories/outbox/postgres"
	restaurantrepo "github.com/overwatch-coder/souppp-ecom/internal/dal/repositories/restaurant/postgres"
	userrepo "github.com/overwatch-coder/souppp-ecom/internal/dal/repositories/user/postgres"
)

// unitOfWork binds the repositories to a single transaction so order
// creation, the user link and the outbox event commit atomically.
type unitOfWork struct {
	pool           *pgxpool.Pool
	tx             pgx.Tx
	orderRepo      iorderrepo.IOrderRepository
	restaurantRepo irestaurantrepo.IRestaurantRepository
	userRepo       iuserrepo.IUserRepository
	outboxRepo     ioutboxrepo.IOutboxRepository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	pool := client.Pool()

	return &unitOfWork{
		pool:           pool,
		orderRepo:      orderrepo.NewOrderRepository(pool),
		restaurantRepo: restaurantrepo.NewRestaurantRepository(pool),
		userRepo:       userrepo.NewUserRepository(pool),
		outboxRepo:     outboxrepo.NewOutboxRepository(pool),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) RestaurantRepository() irestaurantrepo.IRestaurantRepository {
	return u.restaurantRepo
}

func (u *unitOfWork) UserRepository() iuserrepo.IUserRepository {
	return u.userRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	// Rebind the repositories to the transaction.
	u.orderRepo = orderrepo.NewOrderRepository(tx)
	u.restaurantRepo = restaurantrepo.NewRestaurantRepository(tx)
	u.userRepo = userrepo.NewUserRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}
