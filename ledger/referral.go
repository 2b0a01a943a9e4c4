package ledger

import (
	"errors"

	"go-affiliate/web/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordReferral sets referrerID as userID's upline. ReferredBy is
// written exactly once: the referrer must already exist and the user
// must not have one yet, so the referral graph stays a forest.
func RecordReferral(userID, referrerID uint) error {
	if userID == referrerID {
		return ErrSelfReferral
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		var referrer db.User
		if err := tx.First(&referrer, referrerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownReferrer
			}
			return err
		}

		var user db.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if user.ReferredBy != nil {
			return ErrAlreadyReferred
		}

		user.ReferredBy = &referrer.ID
		return tx.Save(&user).Error
	})
}

// GetReferrer returns the upline's user ID, or nil for self-registered
// users with no referrer.
func GetReferrer(userID uint) (*uint, error) {
	var user db.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user.ReferredBy, nil
}
