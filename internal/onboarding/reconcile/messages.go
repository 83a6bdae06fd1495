package reconcile

import (
	"strings"
)

const (
	msgMissingStatus  = "The payment status is missing."
	msgDefaultFail    = "Card registration failed."
	msgMismatch       = "This payment belongs to a different onboarding attempt. Please start again."
	msgMissingInfo    = "Required information is missing."
	msgMissingCard    = "Card registration details are missing."
	msgMissingPayment = "Payment details are missing."
	msgBackendFail    = "Something went wrong while submitting your onboarding request."
)

const testCardHint = `

Test environment details:
- Customer type: personal
- Card number: a real card (no charge is made in test mode) or the test card 4111-1111-1111-1111 (VISA)
- Expiry: the card's own expiry or 12/25 (MM/YY)
- First 7 digits of resident number: your own or 9001011
- CVC: the card's own or 123
- Password: first 2 digits of the card password or 123456

No real payment is made in the test environment.`

const unsupportedCardHint = `

How to fix it:
- Try a real card number (no charge is made in test mode)
- The issuer is detected from the first 4 digits
- Try another test card (e.g. 5555-5555-5555-4444)
- Check that the card type is enabled in the merchant settings

The Toss Payments test environment may support only some card types.`

// failureCodes maps gateway failure codes to user messages.
var failureCodes = map[string]string{
	"USER_CANCEL":              "Card registration was cancelled.",
	"INVALID_CARD":             "The card details are invalid." + testCardHint,
	"CARD_REGISTRATION_FAILED": msgDefaultFail,
	"NETWORK_ERROR":            "A network error occurred. Please try again.",
	"INVALID_CARD_NUMBER":      "The card number is invalid." + testCardHint,
	"NOT_SUPPORTED_CARD_TYPE":  "This card type is not supported by the merchant." + unsupportedCardHint,
}

// FailureMessage picks the text shown for a gateway failure: the gateway's
// own message with a hint where one applies, then the code table, then the
// bare code, then a generic message.
func FailureMessage(code, message string) string {
	if message != "" {
		switch {
		case strings.Contains(message, "Invalid card number"), strings.Contains(message, "카드번호"):
			return message + testCardHint
		case strings.Contains(message, "지원하지 않는 카드종류"), strings.Contains(message, "NOT_SUPPORTED_CARD_TYPE"):
			return message + unsupportedCardHint
		}
		return message
	}
	if code != "" {
		if msg, ok := failureCodes[code]; ok {
			return msg
		}
		return "Error code: " + code
	}
	return msgDefaultFail
}
