package subscription

import (
	"fmt"
	"strings"
)

// Plan is a subscription tier. Prices are monthly, in euro.
type Plan struct {
	Name     string
	Price    string
	Popular  bool
	Features []string
}

// Free returns the features without checkout.
func (p Plan) Free() bool {
	return p.Price == "0"
}

// PriceLabel renders the price the way the plan picker shows it.
func (p Plan) PriceLabel() string {
	if p.Free() {
		return "€0"
	}
	return "€" + p.Price + "/mese"
}

// Plans is the tier catalog, cheapest first.
var Plans = []Plan{
	{
		Name:  "Free",
		Price: "0",
		Features: []string{
			"1 foto in input al giorno",
			"1 creazione in output al giorno",
			"Risposte base",
			"Limitazioni sui token",
			"Accesso standard alle funzionalità",
		},
	},
	{
		Name:    "Core",
		Price:   "5.99",
		Popular: true,
		Features: []string{
			"15 foto in input al giorno",
			"15 creazioni in output al giorno",
			"1 milione di token giornalieri",
			"Risposte prioritarie",
			"Nessuna pubblicità",
			"Supporto via email",
		},
	},
	{
		Name:  "Pro",
		Price: "11.99",
		Features: []string{
			"30 foto in input al giorno",
			"30 creazioni in output al giorno",
			"2 milioni di token giornalieri",
			"Risposte istantanee prioritarie",
			"Accesso anticipato alle novità",
			"Supporto prioritario 24/7",
			"Funzionalità esclusive",
		},
	},
}

// PaymentMethod selects the checkout form for a paid plan.
type PaymentMethod string

const (
	PaymentAmazon PaymentMethod = "amazon"
	PaymentXbox   PaymentMethod = "xbox"
	PaymentPayPal PaymentMethod = "paypal"
)

// PaymentMethods lists the methods in display order.
var PaymentMethods = []PaymentMethod{PaymentAmazon, PaymentXbox, PaymentPayPal}

// Label is the display name of the payment method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentAmazon:
		return "Card Amazon"
	case PaymentXbox:
		return "Card Xbox"
	case PaymentPayPal:
		return "PayPal"
	}
	return string(m)
}

// Payment holds the checkout form input. No payment is ever processed; the
// flow is a demo and Checkout only validates that the form was filled in.
type Payment struct {
	Method PaymentMethod

	// Gift card code for amazon and xbox.
	Code string

	// PayPal credentials.
	Email    string
	Password string
}

// ConfirmationMessage is shown after a successful mock checkout.
const ConfirmationMessage = "Pagamento elaborato! (Questa è una demo)"

// Checkout validates the payment form for the given plan. It never charges
// anything.
func Checkout(plan Plan, payment Payment) error {
	if plan.Free() {
		return fmt.Errorf("the %s plan has no checkout", plan.Name)
	}

	switch payment.Method {
	case PaymentAmazon, PaymentXbox:
		if strings.TrimSpace(payment.Code) == "" {
			return fmt.Errorf("a gift card code is required")
		}
	case PaymentPayPal:
		if strings.TrimSpace(payment.Email) == "" || payment.Password == "" {
			return fmt.Errorf("PayPal email and password are required")
		}
	default:
		return fmt.Errorf("unknown payment method %q", payment.Method)
	}
	return nil
}

// PlanByName finds a plan in the catalog.
func PlanByName(name string) (Plan, bool) {
	for _, plan := range Plans {
		if plan.Name == name {
			return plan, true
		}
	}
	return Plan{}, false
}
