package domain_test

import (
	"testing"

	"github.com/jentii16200/hive-fulfillment/internal/fulfillment/domain"
)

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		external string
		want     domain.PaymentStatus
	}{
		{"paid", domain.PaymentCompleted},
		{"failed", domain.PaymentFailed},
		{"canceled", domain.PaymentFailed},
		{"cancelled", domain.PaymentFailed},
		{"awaiting_next_action", domain.PaymentProcessing},
		{"processing", domain.PaymentProcessing},
		{"awaiting_payment_method", domain.PaymentProcessing},
		{"", domain.PaymentProcessing},
	}

	for _, tt := range tests {
		name := tt.external
		if name == "" {
			name = "unset"
		}
		t.Run(name, func(t *testing.T) {
			if got := domain.MapGatewayStatus(tt.external); got != tt.want {
				t.Errorf("MapGatewayStatus(%q) = %s, want %s", tt.external, got, tt.want)
			}
		})
	}
}

func TestCanTransitionPayment(t *testing.T) {
	tests := []struct {
		name    string
		current domain.PaymentStatus
		next    domain.PaymentStatus
		want    bool
	}{
		{"gateway payment starts requiring action", domain.PaymentPending, domain.PaymentRequiresAction, true},
		{"cod shortcut skips requires_action", domain.PaymentPending, domain.PaymentCompleted, true},
		{"user acted, gateway processing", domain.PaymentRequiresAction, domain.PaymentProcessing, true},
		{"paid straight from requires_action", domain.PaymentRequiresAction, domain.PaymentCompleted, true},
		{"failure while awaiting action", domain.PaymentRequiresAction, domain.PaymentFailed, true},
		{"processing completes", domain.PaymentProcessing, domain.PaymentCompleted, true},
		{"processing fails", domain.PaymentProcessing, domain.PaymentFailed, true},
		{"refund only from completed", domain.PaymentCompleted, domain.PaymentRefunded, true},
		{"completed cannot regress to processing", domain.PaymentCompleted, domain.PaymentProcessing, false},
		{"completed cannot fail", domain.PaymentCompleted, domain.PaymentFailed, false},
		{"failed is terminal", domain.PaymentFailed, domain.PaymentCompleted, false},
		{"refunded is terminal", domain.PaymentRefunded, domain.PaymentCompleted, false},
		{"pending cannot fail directly", domain.PaymentPending, domain.PaymentFailed, false},
		{"pending cannot process directly", domain.PaymentPending, domain.PaymentProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.CanTransitionPayment(tt.current, tt.next); got != tt.want {
				t.Errorf("CanTransitionPayment(%s, %s) = %v, want %v", tt.current, tt.next, got, tt.want)
			}
		})
	}
}

func TestPaymentValidate(t *testing.T) {
	base := func() domain.Payment {
		return domain.Payment{
			ID:            "pay-1",
			OrderID:       "ord-1",
			UserID:        "usr-1",
			AmountCents:   140000,
			Currency:      "php",
			PaymentMethod: domain.MethodGatewayGCash,
			Status:        domain.PaymentRequiresAction,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Payment)
		wantErr bool
	}{
		{"valid payment", func(p *domain.Payment) {}, false},
		{"missing order", func(p *domain.Payment) { p.OrderID = "" }, true},
		{"missing user", func(p *domain.Payment) { p.UserID = "" }, true},
		{"zero amount", func(p *domain.Payment) { p.AmountCents = 0 }, true},
		{"negative amount", func(p *domain.Payment) { p.AmountCents = -500 }, true},
		{"unknown method", func(p *domain.Payment) { p.PaymentMethod = "card" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := base()
			tt.mutate(&payment)
			err := payment.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Payment.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentIsTerminal(t *testing.T) {
	tests := []struct {
		status domain.PaymentStatus
		want   bool
	}{
		{domain.PaymentPending, false},
		{domain.PaymentRequiresAction, false},
		{domain.PaymentProcessing, false},
		{domain.PaymentCompleted, true},
		{domain.PaymentFailed, true},
		{domain.PaymentRefunded, true},
	}

	for _, tt := range tests {
		payment := domain.Payment{Status: tt.status}
		if got := payment.IsTerminal(); got != tt.want {
			t.Errorf("Payment{%s}.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
