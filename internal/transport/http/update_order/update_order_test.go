package updateorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/pkg/http/middleware/auth"
)

type fakeService struct {
	calls int
	err   error
}

func (s *fakeService) TransitionStatus(
	_ context.Context,
	_ string,
	orderID string,
	target order.Status,
	_ string,
) (order.Order, error) {
	if s.err != nil {
		return order.Order{}, s.err
	}

	s.calls++

	return order.Order{ID: orderID, OrderStatus: target}, nil
}

func patch(t *testing.T, svc *fakeService, identity auth.Identity, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/order-1", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "order-1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	req = req.WithContext(auth.WithIdentity(ctx, identity))

	rec := httptest.NewRecorder()
	UpdateOrder(rec, req, svc)

	return rec
}

func TestUpdateOrder(t *testing.T) {
	merchant := auth.Identity{UserID: "merchant-1", Role: auth.RoleMerchant}

	t.Run("merchant updates the status", func(t *testing.T) {
		svc := &fakeService{}
		rec := patch(t, svc, merchant, `{"status":"SHIPPED","restaurant":"rest-1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
		}
		if svc.calls != 1 {
			t.Errorf("service calls = %d, want 1", svc.calls)
		}
	})

	t.Run("non-merchant is forbidden", func(t *testing.T) {
		svc := &fakeService{}
		rec := patch(t, svc, auth.Identity{UserID: "user-1", Role: auth.RoleUser}, `{"status":"SHIPPED","restaurant":"rest-1"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if svc.calls != 0 {
			t.Error("service must not be called")
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc := &fakeService{}
		rec := patch(t, svc, merchant, `{"status":"TELEPORTED","restaurant":"rest-1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		svc := &fakeService{}
		rec := patch(t, svc, merchant, `{"status":"SHIPPED"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("ownership errors map to 403", func(t *testing.T) {
		svc := &fakeService{err: order.ErrNotRestaurantOwner}
		rec := patch(t, svc, merchant, `{"status":"SHIPPED","restaurant":"rest-2"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})
}
