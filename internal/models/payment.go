package models

import "time"

// Payment maps to the `payments` table. Amounts are integer minor units;
// the status column holds a payment.Status value.
type Payment struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PublicID      string `gorm:"column:public_id;size:64;uniqueIndex" json:"id"`
	AmountMinor   int64  `gorm:"column:amount_minor" json:"amount_minor"`
	CurrencyCode  string `gorm:"column:currency_code;size:3" json:"currency_code"`
	Status        string `gorm:"column:status;size:32;index" json:"status"`
	ActionURL     string `gorm:"column:action_url;size:2000" json:"action_url"`
	TransactionID string `gorm:"column:transaction_id;size:200" json:"transaction_id"`
	ReturnURL     string `gorm:"column:return_url;size:2000" json:"return_url"`

	// Payer details, all optional.
	FirstName string `gorm:"column:first_name;size:200" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:200" json:"last_name"`
	Email     string `gorm:"column:email;size:320" json:"email"`
	Phone     string `gorm:"column:phone;size:64" json:"phone"`
	Locale    string `gorm:"column:locale;size:16" json:"locale"`
	IPAddress string `gorm:"column:ip_address;size:64" json:"ip_address"`

	// Billing address, all optional.
	Street      string `gorm:"column:street;size:400" json:"street"`
	HouseNumber string `gorm:"column:house_number;size:32" json:"house_number"`
	City        string `gorm:"column:city;size:200" json:"city"`
	PostalCode  string `gorm:"column:postal_code;size:32" json:"postal_code"`
	CountryCode string `gorm:"column:country_code;size:2" json:"country_code"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentMeta maps to the `payment_meta` table: named gateway values
// stored against a payment (hosted checkout ID, return MAC, ...).
type PaymentMeta struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PaymentID uint   `gorm:"column:payment_id;index:idx_payment_meta_key,unique" json:"-"`
	MetaKey   string `gorm:"column:meta_key;size:200;index:idx_payment_meta_key,unique" json:"key"`
	MetaValue string `gorm:"column:meta_value;type:text" json:"value"`
}

func (PaymentMeta) TableName() string {
	return "payment_meta"
}

// PaymentNote maps to the `payment_notes` table: informational notes
// attached to a payment, e.g. by the webhook endpoint.
type PaymentNote struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PaymentID uint      `gorm:"column:payment_id;index" json:"-"`
	Note      string    `gorm:"column:note;type:text" json:"note"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PaymentNote) TableName() string {
	return "payment_notes"
}
