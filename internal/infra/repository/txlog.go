package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
	"github.com/fabvote/fabvote-gateway/internal/infra/database/models"
	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

type TransactionLogRepository struct {
	db *gorm.DB
}

func NewTransactionLogRepository(db *gorm.DB) *TransactionLogRepository {
	return &TransactionLogRepository{db: db}
}

func (r *TransactionLogRepository) Create(ctx context.Context, entry fabvote.TransactionLog) error {
	row := models.TransactionLog{
		ID:          entry.ID,
		Kind:        entry.Kind,
		Transaction: entry.Transaction,
		Args:        entry.Args,
		Success:     entry.Success,
		ErrorKind:   entry.ErrorKind,
		Error:       entry.Error,
		DurationMs:  entry.DurationMs,
		CDate:       entry.CDate,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *TransactionLogRepository) Get(ctx context.Context, id string) (fabvote.TransactionLog, error) {
	var row models.TransactionLog
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fabvote.TransactionLog{}, domain.NotFoundError{Resource: "transaction " + id}
		}
		return fabvote.TransactionLog{}, err
	}
	return toEntry(row), nil
}

func (r *TransactionLogRepository) List(ctx context.Context, limit int) ([]fabvote.TransactionLog, error) {
	var rows []models.TransactionLog
	err := r.db.WithContext(ctx).
		Order("c_date DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]fabvote.TransactionLog, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntry(row))
	}
	return entries, nil
}

func toEntry(row models.TransactionLog) fabvote.TransactionLog {
	return fabvote.TransactionLog{
		ID:          row.ID,
		Kind:        row.Kind,
		Transaction: row.Transaction,
		Args:        row.Args,
		Success:     row.Success,
		ErrorKind:   row.ErrorKind,
		Error:       row.Error,
		DurationMs:  row.DurationMs,
		CDate:       row.CDate,
	}
}

var _ usecase.TransactionLogRepository = (*TransactionLogRepository)(nil)
