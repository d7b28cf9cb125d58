package paypal

import "net/url"

// ipnMessage holds the IPN fields a donation is built from.
type ipnMessage struct {
	PaymentStatus string `validate:"eq=Completed"`
	Charset       string `validate:"eq=UTF-8"`
	Currency      string `validate:"eq=USD"`
	Business      string `validate:"business"`
	FirstName     string `validate:"required"`
	LastName      string `validate:"required"`
	PayerEmail    string `validate:"required"`
	PayerID       string `validate:"required"`
	TxnID         string `validate:"required"`
	PaymentDate   string `validate:"required"`
	Gross         string `validate:"required"`
	Memo          string
	Custom        string
}

func newIPNMessage(form url.Values) *ipnMessage {
	return &ipnMessage{
		PaymentStatus: form.Get("payment_status"),
		Charset:       form.Get("charset"),
		Currency:      form.Get("mc_currency"),
		Business:      form.Get("business"),
		FirstName:     form.Get("first_name"),
		LastName:      form.Get("last_name"),
		PayerEmail:    form.Get("payer_email"),
		PayerID:       form.Get("payer_id"),
		TxnID:         form.Get("txn_id"),
		PaymentDate:   form.Get("payment_date"),
		Gross:         form.Get("mc_gross"),
		Memo:          form.Get("memo"),
		Custom:        form.Get("custom"),
	}
}
