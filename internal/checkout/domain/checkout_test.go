package domain

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/pharmadelivery/internal/cart/domain"
)

func validDetails() DeliveryDetails {
	return DeliveryDetails{
		Address:       "12 MG Road",
		City:          "Pune",
		State:         "MH",
		Zip:           "411001",
		DeliveryDate:  "2026-09-01",
		DeliveryTime:  "10:00-12:00",
		PaymentMethod: PaymentCOD,
	}
}

func TestDeliveryDetailsValidate(t *testing.T) {
	if err := validDetails().Validate(); err != nil {
		t.Fatalf("valid details rejected: %v", err)
	}

	mutations := map[string]func(*DeliveryDetails){
		"address":        func(d *DeliveryDetails) { d.Address = "" },
		"city":           func(d *DeliveryDetails) { d.City = "" },
		"state":          func(d *DeliveryDetails) { d.State = "" },
		"zip":            func(d *DeliveryDetails) { d.Zip = "" },
		"delivery_date":  func(d *DeliveryDetails) { d.DeliveryDate = "" },
		"delivery_time":  func(d *DeliveryDetails) { d.DeliveryTime = "" },
		"payment_method": func(d *DeliveryDetails) { d.PaymentMethod = "bitcoin" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			d := validDetails()
			mutate(&d)
			err := d.Validate()
			if err == nil {
				t.Fatalf("expected validation error for missing %s", name)
			}
		})
	}
}

func TestValidateCart(t *testing.T) {
	valid := []cartdomain.LineItem{{MedicineID: "m1", Price: 2.5, Quantity: 4}}
	if err := ValidateCart(valid); err != nil {
		t.Fatalf("valid cart rejected: %v", err)
	}

	cases := map[string][]cartdomain.LineItem{
		"empty":             nil,
		"blank medicine id": {{MedicineID: "", Price: 2.5, Quantity: 1}},
		"zero quantity":     {{MedicineID: "m1", Price: 2.5, Quantity: 0}},
		"negative price":    {{MedicineID: "m1", Price: -1, Quantity: 1}},
		"nan price":         {{MedicineID: "m1", Price: math.NaN(), Quantity: 1}},
		"inf price":         {{MedicineID: "m1", Price: math.Inf(1), Quantity: 1}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			if err := ValidateCart(items); err == nil {
				t.Fatal("expected ErrInvalidCart")
			}
		})
	}
}

func TestShippingAddress(t *testing.T) {
	got := validDetails().ShippingAddress()
	want := "12 MG Road, Pune, MH 411001"
	if got != want {
		t.Errorf("shipping address = %q, want %q", got, want)
	}
}

func TestSubtotalAndTotal(t *testing.T) {
	items := []cartdomain.LineItem{
		{MedicineID: "m1", Price: 2.5, Quantity: 4},
		{MedicineID: "m2", Price: 10, Quantity: 1},
	}

	if got := Subtotal(items); !got.Equal(decimal.NewFromInt(20)) {
		t.Errorf("subtotal = %s, want 20", got)
	}
	if got := Total(items); !got.Equal(decimal.NewFromInt(69)) {
		t.Errorf("total = %s, want 69 (subtotal + surcharge)", got)
	}
}

func TestTotalOnEmptyItemsIsSurchargeOnly(t *testing.T) {
	if got := Total(nil); !got.Equal(DeliverySurcharge) {
		t.Errorf("total = %s, want %s", got, DeliverySurcharge)
	}
}

func TestBuildOrderPayload(t *testing.T) {
	items := []cartdomain.LineItem{
		{MedicineID: "m1", Name: "A", Price: 3.33, Quantity: 3},
	}
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	payload := BuildOrderPayload("u1", items, validDetails(), now)

	if payload.UserID != "u1" || len(payload.Items) != 1 {
		t.Fatalf("payload identity wrong: %+v", payload)
	}
	if payload.Subtotal.String() != "9.99" {
		t.Errorf("subtotal = %s, want 9.99", payload.Subtotal)
	}
	if payload.Total.String() != "58.99" {
		t.Errorf("total = %s, want 58.99", payload.Total)
	}
	if !payload.DeliveryFee.Equal(DeliverySurcharge) {
		t.Errorf("delivery fee = %s", payload.DeliveryFee)
	}
	if payload.ShippingAddress != "12 MG Road, Pune, MH 411001" {
		t.Errorf("shipping address = %q", payload.ShippingAddress)
	}
	if !payload.PlacedAt.Equal(now) {
		t.Errorf("placed_at = %v", payload.PlacedAt)
	}
}
