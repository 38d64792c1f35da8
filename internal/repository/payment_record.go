package repository

import (
	"fmt"

	"paydirect/internal/models"
	"paydirect/internal/payment"
)

// PaymentRecord adapts a stored payment to the payment.Record interface
// the gateway operates on. Meta reads go through the repository; meta
// writes are buffered and flushed together with the row on Save.
type PaymentRecord struct {
	model *models.Payment
	repo  *PaymentRepository

	dirtyMeta map[string]string
}

func NewPaymentRecord(model *models.Payment, repo *PaymentRepository) *PaymentRecord {
	return &PaymentRecord{
		model:     model,
		repo:      repo,
		dirtyMeta: make(map[string]string),
	}
}

// Model returns the underlying row.
func (r *PaymentRecord) Model() *models.Payment {
	return r.model
}

func (r *PaymentRecord) ID() string {
	return r.model.PublicID
}

func (r *PaymentRecord) ReturnURL() string {
	return r.model.ReturnURL
}

func (r *PaymentRecord) TotalAmount() payment.Amount {
	return payment.Amount{
		MinorUnits:   r.model.AmountMinor,
		CurrencyCode: r.model.CurrencyCode,
	}
}

func (r *PaymentRecord) Customer() *payment.Customer {
	m := r.model
	if m.FirstName == "" && m.LastName == "" && m.Email == "" && m.Phone == "" && m.Locale == "" && m.IPAddress == "" {
		return nil
	}
	return &payment.Customer{
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Locale:    m.Locale,
		IPAddress: m.IPAddress,
	}
}

func (r *PaymentRecord) BillingAddress() *payment.BillingAddress {
	m := r.model
	if m.Street == "" && m.HouseNumber == "" && m.City == "" && m.PostalCode == "" && m.CountryCode == "" {
		return nil
	}
	return &payment.BillingAddress{
		Street:      m.Street,
		HouseNumber: m.HouseNumber,
		City:        m.City,
		PostalCode:  m.PostalCode,
		CountryCode: m.CountryCode,
	}
}

func (r *PaymentRecord) Meta(key string) string {
	if value, ok := r.dirtyMeta[key]; ok {
		return value
	}
	value, err := r.repo.Meta(r.model.ID, key)
	if err != nil {
		return ""
	}
	return value
}

func (r *PaymentRecord) SetMeta(key, value string) {
	r.dirtyMeta[key] = value
}

func (r *PaymentRecord) SetActionURL(url string) {
	r.model.ActionURL = url
}

func (r *PaymentRecord) SetStatus(status payment.Status) {
	r.model.Status = string(status)
}

// CurrentStatus exposes the stored status for result rendering.
func (r *PaymentRecord) CurrentStatus() payment.Status {
	return payment.Status(r.model.Status)
}

func (r *PaymentRecord) SetTransactionID(id string) {
	r.model.TransactionID = id
}

func (r *PaymentRecord) Save() error {
	if err := r.repo.Save(r.model); err != nil {
		return fmt.Errorf("save payment row: %w", err)
	}
	for key, value := range r.dirtyMeta {
		if err := r.repo.SetMeta(r.model.ID, key, value); err != nil {
			return fmt.Errorf("save payment meta %s: %w", key, err)
		}
	}
	r.dirtyMeta = make(map[string]string)
	return nil
}
