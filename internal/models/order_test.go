package models

import "testing"

func TestRoundCents(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{19.99, 19.99},
		{19.996, 20.00},
		{19.994, 19.99},
		{0.1 + 0.2, 0.30},
		{3 * 19.99, 59.97},
		{0, 0},
	}
	for _, tc := range cases {
		if got := RoundCents(tc.in); got != tc.want {
			t.Errorf("RoundCents(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OrderStatus("teleported").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestPaymentStatusValid(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if PaymentStatus("iou").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestSizeStock(t *testing.T) {
	p := Product{Sizes: []ProductSize{{Size: "M", Stock: 5}, {Size: "L", Stock: 0}}}

	if stock, ok := p.SizeStock("M"); !ok || stock != 5 {
		t.Errorf("SizeStock(M) = %d, %v", stock, ok)
	}
	if stock, ok := p.SizeStock("L"); !ok || stock != 0 {
		t.Errorf("SizeStock(L) = %d, %v", stock, ok)
	}
	if _, ok := p.SizeStock("XXL"); ok {
		t.Error("SizeStock(XXL) should report absent")
	}
}
