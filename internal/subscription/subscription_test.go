package subscription

import "testing"

func TestCatalog(t *testing.T) {
	if len(Plans) != 3 {
		t.Fatalf("catalog has %d plans, want 3", len(Plans))
	}
	if !Plans[0].Free() {
		t.Error("first plan is not free")
	}
	if Plans[1].Name != "Core" || !Plans[1].Popular {
		t.Errorf("second plan = %+v, want popular Core", Plans[1])
	}
	if Plans[2].PriceLabel() != "€11.99/mese" {
		t.Errorf("Pro price label = %q", Plans[2].PriceLabel())
	}
	if Plans[0].PriceLabel() != "€0" {
		t.Errorf("Free price label = %q", Plans[0].PriceLabel())
	}
}

func TestCheckout(t *testing.T) {
	core, ok := PlanByName("Core")
	if !ok {
		t.Fatal("Core plan missing")
	}
	free, _ := PlanByName("Free")

	tests := []struct {
		name    string
		plan    Plan
		payment Payment
		wantErr bool
	}{
		{"Amazon with code", core, Payment{Method: PaymentAmazon, Code: "XXXX-XXXX-XXXX"}, false},
		{"Amazon without code", core, Payment{Method: PaymentAmazon}, true},
		{"Xbox with code", core, Payment{Method: PaymentXbox, Code: "XXXXX-XXXXX"}, false},
		{"PayPal complete", core, Payment{Method: PaymentPayPal, Email: "a@b.com", Password: "pw"}, false},
		{"PayPal missing password", core, Payment{Method: PaymentPayPal, Email: "a@b.com"}, true},
		{"Unknown method", core, Payment{Method: "bitcoin"}, true},
		{"Free plan has no checkout", free, Payment{Method: PaymentPayPal, Email: "a@b.com", Password: "pw"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Checkout(tt.plan, tt.payment)
			if tt.wantErr != (err != nil) {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlanByName(t *testing.T) {
	if _, ok := PlanByName("Enterprise"); ok {
		t.Error("unknown plan was found")
	}
}
