package repositories

import (
	"admin-app/models"

	"gorm.io/gorm"
)

// RequestRepository manages the activation request queue in the master
// database.
type RequestRepository struct {
	DB *gorm.DB
}

func NewRequestRepository(DB *gorm.DB) *RequestRepository {
	return &RequestRepository{DB: DB}
}

// NextPending claims the oldest pending request by flipping it to RUNNING
// inside a transaction, so two workers never pick up the same request.
func (r *RequestRepository) NextPending() (*models.ActivationRequest, error) {
	var req models.ActivationRequest
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("status = ?", models.RequestStatusPending).
			Order("created_at asc").
			First(&req).Error
		if err != nil {
			return err
		}
		return tx.Model(&req).Update("status", models.RequestStatusRunning).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// Complete stores the result report and final status.
func (r *RequestRepository) Complete(req *models.ActivationRequest, report string) error {
	return r.DB.Model(req).Updates(map[string]interface{}{
		"status": models.RequestStatusDone,
		"report": report,
	}).Error
}

// Fail stores the failure and final status.
func (r *RequestRepository) Fail(req *models.ActivationRequest, report, errMsg string) error {
	return r.DB.Model(req).Updates(map[string]interface{}{
		"status": models.RequestStatusFailed,
		"report": report,
		"error":  errMsg,
	}).Error
}
