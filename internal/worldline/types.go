package worldline

import "encoding/json"

// CheckoutStatus is the lifecycle status of a hosted checkout session.
// The set is closed; decoding any other value fails with a ParseError so
// an unknown upstream status can never masquerade as a known one.
//
// https://docs.direct.worldline-solutions.com/en/api-reference#tag/HostedCheckout/operation/GetHostedCheckoutApi
type CheckoutStatus string

const (
	CheckoutStatusPaymentCreated      CheckoutStatus = "PAYMENT_CREATED"
	CheckoutStatusInProgress          CheckoutStatus = "IN_PROGRESS"
	CheckoutStatusCancelledByConsumer CheckoutStatus = "CANCELLED_BY_CONSUMER"
)

func (s *CheckoutStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ParseError{Msg: "status is not a string", Err: err}
	}
	switch CheckoutStatus(raw) {
	case CheckoutStatusPaymentCreated, CheckoutStatusInProgress, CheckoutStatusCancelledByConsumer:
		*s = CheckoutStatus(raw)
		return nil
	}
	return &ParseError{Msg: "unknown hosted checkout status " + raw}
}

// PaymentStatusCategory refines a PAYMENT_CREATED checkout into the
// outcome of the created payment. Closed set, same decode rule as
// CheckoutStatus.
type PaymentStatusCategory string

const (
	PaymentStatusCategorySuccessful    PaymentStatusCategory = "SUCCESSFUL"
	PaymentStatusCategoryRejected      PaymentStatusCategory = "REJECTED"
	PaymentStatusCategoryStatusUnknown PaymentStatusCategory = "STATUS_UNKNOWN"
)

func (c *PaymentStatusCategory) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ParseError{Msg: "paymentStatusCategory is not a string", Err: err}
	}
	switch PaymentStatusCategory(raw) {
	case PaymentStatusCategorySuccessful, PaymentStatusCategoryRejected, PaymentStatusCategoryStatusUnknown:
		*c = PaymentStatusCategory(raw)
		return nil
	}
	return &ParseError{Msg: "unknown payment status category " + raw}
}

// HostedCheckoutSession is the result of creating a hosted checkout.
// Every field is optional; the API may omit any of them.
type HostedCheckoutSession struct {
	HostedCheckoutID string `json:"hostedCheckoutId,omitempty"`
	ReturnMAC        string `json:"RETURNMAC,omitempty"`
	RedirectURL      string `json:"redirectUrl,omitempty"`
}

// PaymentReference identifies the payment transaction Worldline created
// for a completed checkout.
type PaymentReference struct {
	ID string `json:"id,omitempty"`
}

// CreatedPaymentOutput refines the checkout status once a payment exists.
type CreatedPaymentOutput struct {
	Payment               *PaymentReference      `json:"payment,omitempty"`
	PaymentStatusCategory *PaymentStatusCategory `json:"paymentStatusCategory,omitempty"`
}

// HostedCheckoutStatusReport is the result of a status poll. A report
// with status PAYMENT_CREATED may or may not carry CreatedPaymentOutput;
// absence means no further refinement is available, not an error.
type HostedCheckoutStatusReport struct {
	Status               CheckoutStatus        `json:"status"`
	CreatedPaymentOutput *CreatedPaymentOutput `json:"createdPaymentOutput,omitempty"`
}

// ── Request payloads ─────────────────────────────────────────────────

// HostedCheckoutSpecificInput configures the hosted payment page.
type HostedCheckoutSpecificInput struct {
	ReturnURL string `json:"returnUrl"`
	Variant   string `json:"variant,omitempty"`
}

// AmountOfMoney is an amount in integer minor units with an ISO 4217
// alphabetic currency code. Never floating point.
type AmountOfMoney struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// OrderReferences correlates the checkout with the merchant's own records.
type OrderReferences struct {
	MerchantReference string `json:"merchantReference"`
	Descriptor        string `json:"descriptor,omitempty"`
}

// PersonalName carries the payer's name parts.
type PersonalName struct {
	FirstName string `json:"firstName,omitempty"`
	Surname   string `json:"surname,omitempty"`
}

// PersonalInformation groups personal details of the payer.
type PersonalInformation struct {
	Name *PersonalName `json:"name,omitempty"`
}

// ContactDetails carries ways to reach the payer.
type ContactDetails struct {
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// Address is the payer's billing address.
type Address struct {
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"houseNumber,omitempty"`
	City        string `json:"city,omitempty"`
	Zip         string `json:"zip,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// Device carries payer device data used for fraud screening.
type Device struct {
	IPAddress string `json:"ipAddress,omitempty"`
}

// Customer is built incrementally from whatever payer data is available;
// each sub-object is included only when it has at least one non-empty
// field, and the whole object is omitted when no data exists at all.
type Customer struct {
	PersonalInformation *PersonalInformation `json:"personalInformation,omitempty"`
	ContactDetails      *ContactDetails      `json:"contactDetails,omitempty"`
	BillingAddress      *Address             `json:"billingAddress,omitempty"`
	Locale              string               `json:"locale,omitempty"`
	Device              *Device              `json:"device,omitempty"`
}

// Order describes what is being paid for.
type Order struct {
	References    OrderReferences `json:"references"`
	AmountOfMoney AmountOfMoney   `json:"amountOfMoney"`
	Customer      *Customer       `json:"customer,omitempty"`
}

// Feedbacks configures where Worldline delivers webhook notifications for
// this checkout.
type Feedbacks struct {
	WebhooksURLs []string `json:"webhooksUrls,omitempty"`
}

// CreateHostedCheckoutRequest is the body of the create call.
type CreateHostedCheckoutRequest struct {
	HostedCheckoutSpecificInput HostedCheckoutSpecificInput `json:"hostedCheckoutSpecificInput"`
	Order                       Order                       `json:"order"`
	Feedbacks                   *Feedbacks                  `json:"feedbacks,omitempty"`
}
