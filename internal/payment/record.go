package payment

// Amount is a monetary amount in integer minor units (e.g. cents) with an
// ISO 4217 alphabetic currency code.
type Amount struct {
	MinorUnits   int64
	CurrencyCode string
}

// Customer is a read-only view of the payer, as far as the host system
// knows them. Any field may be empty.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Locale    string
	IPAddress string
}

// BillingAddress is a read-only view of the payer's billing address.
type BillingAddress struct {
	Street      string
	HouseNumber string
	City        string
	PostalCode  string
	CountryCode string
}

// Record is the gateway's view of one payment owned by the host system.
// The gateway reads order data from it, stores gateway identifiers as
// named meta values and writes status transitions back; it never creates
// or deletes records.
type Record interface {
	// ID returns the host-side payment identifier.
	ID() string

	// ReturnURL is where the consumer lands after the hosted checkout.
	ReturnURL() string

	// TotalAmount returns the amount to collect.
	TotalAmount() Amount

	// Customer returns payer details, or nil when none are known.
	Customer() *Customer

	// BillingAddress returns the billing address, or nil when unknown.
	BillingAddress() *BillingAddress

	// Meta reads a named gateway value stored against the payment; empty
	// string when unset.
	Meta(key string) string

	// SetMeta stores a named gateway value against the payment.
	SetMeta(key, value string)

	SetActionURL(url string)
	SetStatus(status Status)
	SetTransactionID(id string)

	// Save persists all pending mutations.
	Save() error
}

// Meta keys the gateway stores on a payment record.
const (
	MetaHostedCheckoutID = "worldline_hosted_checkout_id"
	MetaReturnMAC        = "worldline_return_mac"
)
