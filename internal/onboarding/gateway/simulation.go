package gateway

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/aussiebroadwan/tenantboard/pkg/cryptox"
)

const (
	simTokenPrefix   = "tok_test_"
	simBillingPrefix = "billing_test_"
	simPaymentPrefix = "pay_test_"
)

// Simulation stands in for a real gateway. Hosted pages are skipped: the
// launch goes straight to the success URL with generated keys.
type Simulation struct {
	now func() time.Time
}

func NewSimulation() *Simulation { return &Simulation{now: time.Now} }

func (s *Simulation) Tag() Tag { return TagTest }

func (s *Simulation) Init(context.Context, Options) error { return nil }

// CreateToken checks the card the way a gateway's client-side form would
// and returns a throwaway token.
func (s *Simulation) CreateToken(_ context.Context, card CardInfo) (*TokenResult, error) {
	number := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, card.Number)
	if len(number) < 13 || len(number) > 19 {
		return nil, ErrInvalidCardNumber
	}

	yy, err := strconv.Atoi(card.ExpiryYear)
	if err != nil || yy < s.now().Year()%100 {
		return nil, ErrCardExpired
	}

	if len(card.CVC) < 3 || len(card.CVC) > 4 {
		return nil, ErrInvalidCVC
	}

	suffix, err := simSuffix(s.now())
	if err != nil {
		return nil, err
	}
	month, _ := strconv.Atoi(card.ExpiryMonth)

	return &TokenResult{
		Token:       simTokenPrefix + suffix,
		CardBrand:   DetectCardBrand(number),
		CardLast4:   number[len(number)-4:],
		ExpiryMonth: month,
		ExpiryYear:  2000 + yy,
	}, nil
}

func (s *Simulation) VerifyToken(token string) bool {
	return strings.HasPrefix(token, simTokenPrefix)
}

func (s *Simulation) RequestBillingAuth(_ context.Context, p BillingAuthParams) (*Launch, error) {
	suffix, err := simSuffix(s.now())
	if err != nil {
		return nil, err
	}
	q := url.Values{"authKey": {simBillingPrefix + suffix}}
	return &Launch{
		Kind:     LaunchRedirect,
		Provider: TagTest,
		URL:      appendQuery(p.SuccessURL, q.Encode()),
	}, nil
}

func (s *Simulation) RequestPayment(_ context.Context, p PaymentParams) (*Launch, error) {
	suffix, err := simSuffix(s.now())
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"paymentKey": {simPaymentPrefix + suffix},
		"orderId":    {p.OrderID},
		"amount":     {strconv.FormatInt(p.Amount, 10)},
	}
	return &Launch{
		Kind:     LaunchRedirect,
		Provider: TagTest,
		URL:      appendQuery(p.SuccessURL, q.Encode()),
	}, nil
}

func simSuffix(now time.Time) (string, error) {
	r, err := cryptox.GenerateSuffix(5)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + r, nil
}

// DetectCardBrand guesses the scheme from the leading digits.
func DetectCardBrand(number string) string {
	if number == "" {
		return "UNKNOWN"
	}
	two := number
	if len(two) > 2 {
		two = two[:2]
	}
	switch {
	case number[0] == '4':
		return "VISA"
	case two >= "51" && two <= "55":
		return "MASTERCARD"
	case two == "34" || two == "37":
		return "AMEX"
	case two == "35":
		return "JCB"
	case two >= "30" && two <= "36", two == "38" || two == "39":
		return "DINERS"
	}
	return "UNKNOWN"
}
