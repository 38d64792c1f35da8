package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paydirect/internal/models"
	"paydirect/internal/payment"
)

// PaymentRepository handles payment database operations.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment.
func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

// FindByPublicID returns a payment by its public identifier.
func (r *PaymentRepository) FindByPublicID(publicID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("public_id = ?", publicID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll returns payments with pagination.
func (r *PaymentRepository) FindAll(limit, page int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.Model(&models.Payment{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	if err := db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// ListPollable returns payments in the given status that carry the meta
// key the poller needs (a stored hosted checkout ID).
func (r *PaymentRepository) ListPollable(status, metaKey string, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	var payments []models.Payment
	err := r.db.
		Joins("JOIN payment_meta ON payment_meta.payment_id = payments.id AND payment_meta.meta_key = ? AND payment_meta.meta_value <> ''", metaKey).
		Where("payments.status = ?", status).
		Order("payments.updated_at ASC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

// ListStaleOpen returns payments still in the given status whose last
// update is older than the cutoff.
func (r *PaymentRepository) ListStaleOpen(status string, olderThan time.Time, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	var payments []models.Payment
	err := r.db.
		Where("status = ? AND updated_at < ?", status, olderThan).
		Order("updated_at ASC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

// Save persists the full payment row.
func (r *PaymentRepository) Save(p *models.Payment) error {
	return r.db.Save(p).Error
}

// Meta returns the value stored under key for a payment, or "" when the
// key is unset.
func (r *PaymentRepository) Meta(paymentID uint, key string) (string, error) {
	var meta models.PaymentMeta
	err := r.db.Where("payment_id = ? AND meta_key = ?", paymentID, key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.MetaValue, nil
}

// SetMeta upserts a named value for a payment.
func (r *PaymentRepository) SetMeta(paymentID uint, key, value string) error {
	meta := models.PaymentMeta{
		PaymentID: paymentID,
		MetaKey:   key,
		MetaValue: value,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
	}).Create(&meta).Error
}

// FindRecord loads a payment by public ID as a gateway record.
func (r *PaymentRepository) FindRecord(publicID string) (payment.Record, error) {
	p, err := r.FindByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	return NewPaymentRecord(p, r), nil
}

// AddNoteByPublicID attaches an informational note to a payment looked up
// by its public ID.
func (r *PaymentRepository) AddNoteByPublicID(publicID, note string) error {
	p, err := r.FindByPublicID(publicID)
	if err != nil {
		return err
	}
	return r.AddNote(p.ID, note)
}

// AddNote attaches an informational note to a payment.
func (r *PaymentRepository) AddNote(paymentID uint, note string) error {
	return r.db.Create(&models.PaymentNote{
		PaymentID: paymentID,
		Note:      note,
	}).Error
}
