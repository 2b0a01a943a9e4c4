package ledger

import (
	"errors"
	"time"

	"go-affiliate/monitoring"
	"go-affiliate/web/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateWithdrawal validates the request against the user's available
// balance (lifetime earnings minus pending and approved withdrawals)
// and records it in pending. The user row is locked FOR UPDATE for the
// whole check-then-insert so two concurrent requests cannot both pass
// the balance check against a stale sum.
func CreateWithdrawal(userID uint, amount int, message string) (db.WithdrawalRequest, error) {
	if amount <= 0 {
		return db.WithdrawalRequest{}, ErrInvalidAmount
	}

	var request db.WithdrawalRequest
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		lifetime, err := LifetimeEarnings(tx, userID)
		if err != nil {
			return err
		}

		var outstanding int64
		err = tx.Model(&db.WithdrawalRequest{}).
			Where("user_id = ? AND status IN ?", userID, []string{db.StatusPending, db.StatusApproved}).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&outstanding).Error
		if err != nil {
			return err
		}

		if amount > lifetime-int(outstanding) {
			return ErrInsufficientBalance
		}

		request = db.WithdrawalRequest{
			UserID:  userID,
			Amount:  amount,
			Message: message,
			Status:  db.StatusPending,
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return db.WithdrawalRequest{}, err
	}

	monitoring.WithdrawalsRequested.Inc()
	return request, nil
}

// DecideWithdrawal records the admin decision. Only pending requests can
// be decided and decisions are final.
func DecideWithdrawal(requestID, adminID uint, status string) error {
	if status != db.StatusApproved && status != db.StatusRejected {
		return ErrInvalidStateTransition
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var request db.WithdrawalRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if request.Status != db.StatusPending {
			return ErrInvalidStateTransition
		}

		now := time.Now()
		request.Status = status
		request.ReviewedBy = &adminID
		request.ReviewedAt = &now
		return tx.Save(&request).Error
	})
	if err != nil {
		return err
	}

	monitoring.WithdrawalsDecided.WithLabelValues(status).Inc()
	return nil
}
