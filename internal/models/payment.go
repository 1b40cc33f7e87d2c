package models

// PaymentInstrument exists only for the duration of a checkout submission
// and is discarded as soon as the request completes. The raw card number
// and CVV must never be logged or persisted.
type PaymentInstrument struct {
	CardNumber string `json:"card_number" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

// Last4 is the only part of the card number safe to surface in logs or
// messages.
func (p *PaymentInstrument) Last4() string {
	if len(p.CardNumber) < 4 {
		return ""
	}

	return p.CardNumber[len(p.CardNumber)-4:]
}

type EmailRequest struct {
	To          string   `json:"to"`
	CC          []string `json:"cc,omitempty"`
	BCC         []string `json:"bcc,omitempty"`
	Subject     string   `json:"subject"`
	Content     string   `json:"content"`
	HTMLContent string   `json:"html_content,omitempty"`
}
