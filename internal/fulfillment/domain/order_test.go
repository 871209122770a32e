package domain_test

import (
	"testing"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"

	apperrors "github.com/jentii16200/hive-fulfillment/internal/errors"
)

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Street:   "123 Rizal St",
		City:     "Quezon City",
		Province: "Metro Manila",
		Region:   "NCR",
		Zip:      "1100",
		FullName: "Juan Dela Cruz",
		Phone:    "+639171234567",
	}
}

func TestComputeTotalCents(t *testing.T) {
	items := []domain.OrderItem{
		{ProductID: "p1", Quantity: 2, UnitPriceCents: 50000},
		{ProductID: "p2", Quantity: 1, UnitPriceCents: 30000},
	}

	t.Run("manila address gets low surcharge", func(t *testing.T) {
		address := validAddress()
		address.City = "Manila"
		address.Province = "Metro Manila"

		got := domain.ComputeTotalCents(items, address)
		if want := int64(140000); got != want {
			t.Errorf("ComputeTotalCents() = %d, want %d", got, want)
		}
	})

	t.Run("manila match is case insensitive on province", func(t *testing.T) {
		address := validAddress()
		address.City = "Makati"
		address.Province = "METRO MANILA"

		got := domain.ComputeTotalCents(items, address)
		if want := int64(140000); got != want {
			t.Errorf("ComputeTotalCents() = %d, want %d", got, want)
		}
	})

	t.Run("non-manila address gets high surcharge", func(t *testing.T) {
		address := validAddress()
		address.City = "Cebu City"
		address.Province = "Cebu"

		got := domain.ComputeTotalCents(items, address)
		if want := int64(150000); got != want {
			t.Errorf("ComputeTotalCents() = %d, want %d", got, want)
		}
	})
}

func TestNextOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		current domain.OrderStatus
		event   domain.OrderEvent
		want    domain.OrderStatus
		wantErr bool
	}{
		{"cod checkout", domain.OrderPending, domain.EventCheckoutCOD, domain.OrderAwaitingCOD, false},
		{"gateway checkout", domain.OrderPending, domain.EventCheckoutGateway, domain.OrderAwaitingPayment, false},
		{"gateway payment completes", domain.OrderAwaitingPayment, domain.EventPaymentCompleted, domain.OrderPaid, false},
		{"cod payment completes", domain.OrderAwaitingCOD, domain.EventPaymentCompleted, domain.OrderPaid, false},
		{"paid order ships", domain.OrderPaid, domain.EventShip, domain.OrderShipped, false},
		{"shipped order delivers", domain.OrderShipped, domain.EventDeliver, domain.OrderDelivered, false},
		{"cancel pending", domain.OrderPending, domain.EventCancel, domain.OrderCancelled, false},
		{"cancel awaiting payment", domain.OrderAwaitingPayment, domain.EventCancel, domain.OrderCancelled, false},
		{"cancel paid", domain.OrderPaid, domain.EventCancel, domain.OrderCancelled, false},
		{"cancel shipped rejected", domain.OrderShipped, domain.EventCancel, "", true},
		{"cancel delivered rejected", domain.OrderDelivered, domain.EventCancel, "", true},
		{"cancel twice rejected", domain.OrderCancelled, domain.EventCancel, "", true},
		{"payment completed on paid order rejected", domain.OrderPaid, domain.EventPaymentCompleted, "", true},
		{"checkout on non-pending rejected", domain.OrderPaid, domain.EventCheckoutCOD, "", true},
		{"ship before paid rejected", domain.OrderAwaitingPayment, domain.EventShip, "", true},
		{"deliver before shipped rejected", domain.OrderPaid, domain.EventDeliver, "", true},
		{"deliver twice rejected", domain.OrderDelivered, domain.EventDeliver, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NextOrderStatus(tt.current, tt.event)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected rejection, got status %s", got)
				}
				if _, ok := apperrors.IsInvariantViolationError(err); !ok {
					t.Errorf("expected invariant violation, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextOrderStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOrderStatusNeverMovesBackward(t *testing.T) {
	// The two awaiting states are parallel branches of the same stage, so
	// they share a rank.
	rank := map[domain.OrderStatus]int{
		domain.OrderPending:         0,
		domain.OrderAwaitingPayment: 1,
		domain.OrderAwaitingCOD:     1,
		domain.OrderPaid:            2,
		domain.OrderShipped:         3,
		domain.OrderDelivered:       4,
	}
	events := []domain.OrderEvent{
		domain.EventCheckoutCOD,
		domain.EventCheckoutGateway,
		domain.EventPaymentCompleted,
		domain.EventShip,
		domain.EventDeliver,
	}

	for current := range rank {
		for _, event := range events {
			next, err := domain.NextOrderStatus(current, event)
			if err != nil {
				continue
			}
			nextRank, ok := rank[next]
			if !ok {
				t.Errorf("transition %s + %s = %s leaves the forward chain", current, event, next)
				continue
			}
			if nextRank <= rank[current] {
				t.Errorf("transition %s + %s = %s moves backward", current, event, next)
			}
		}
	}
}

func TestOrderValidate(t *testing.T) {
	base := func() domain.Order {
		return domain.Order{
			ID:     "ord-1",
			UserID: "usr-1",
			Items: []domain.OrderItem{
				{ProductID: "p1", Quantity: 1, UnitPriceCents: 50000},
			},
			ShippingAddress: validAddress(),
			PaymentMethod:   domain.MethodCOD,
			Status:          domain.OrderAwaitingCOD,
			TotalCents:      70000,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Order)
		wantErr bool
	}{
		{"valid order", func(o *domain.Order) {}, false},
		{"empty items", func(o *domain.Order) { o.Items = nil }, true},
		{"zero quantity", func(o *domain.Order) { o.Items[0].Quantity = 0 }, true},
		{"negative price", func(o *domain.Order) { o.Items[0].UnitPriceCents = -100 }, true},
		{"missing product reference", func(o *domain.Order) { o.Items[0].ProductID = " " }, true},
		{"missing city", func(o *domain.Order) { o.ShippingAddress.City = "" }, true},
		{"unknown method", func(o *domain.Order) { o.PaymentMethod = "wire" }, true},
		{"zero total", func(o *domain.Order) { o.TotalCents = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := base()
			tt.mutate(&order)
			err := order.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Order.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := apperrors.IsValidationError(err); !ok {
					t.Errorf("expected validation error, got %T", err)
				}
			}
		})
	}
}

func TestAtOrPastPaid(t *testing.T) {
	tests := []struct {
		status domain.OrderStatus
		want   bool
	}{
		{domain.OrderPending, false},
		{domain.OrderAwaitingPayment, false},
		{domain.OrderAwaitingCOD, false},
		{domain.OrderPaid, true},
		{domain.OrderShipped, true},
		{domain.OrderDelivered, true},
		{domain.OrderCancelled, false},
	}

	for _, tt := range tests {
		if got := domain.AtOrPastPaid(tt.status); got != tt.want {
			t.Errorf("AtOrPastPaid(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
