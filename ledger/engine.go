package ledger

import (
	"errors"
	"time"

	"go-affiliate/monitoring"
	"go-affiliate/web/db"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitProof records a user-submitted transaction screenshot for admin
// review. TransactionID is free text and is not checked for uniqueness.
func SubmitProof(userID, packageID uint, transactionID, screenshot string) (db.PaymentProof, error) {
	var pkg db.Package
	if err := db.DB.First(&pkg, packageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.PaymentProof{}, ErrNotFound
		}
		return db.PaymentProof{}, err
	}
	if !pkg.Active {
		return db.PaymentProof{}, ErrPackageInactive
	}

	proof := db.PaymentProof{
		UserID:        userID,
		PackageID:     packageID,
		TransactionID: transactionID,
		Screenshot:    screenshot,
		Status:        db.StatusPending,
	}
	if err := db.DB.Create(&proof).Error; err != nil {
		return db.PaymentProof{}, err
	}

	monitoring.ProofsSubmitted.Inc()
	return proof, nil
}

// ApproveProof transitions a pending proof to approved and, in the same
// transaction, creates the Payment record and posts the commission rows.
// The proof row is locked FOR UPDATE so concurrent approvals serialize:
// the loser sees the terminal state and gets ErrAlreadyApproved, which
// callers treat as a no-op rather than double-paying commissions.
func ApproveProof(proofID, adminID uint) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var proof db.PaymentProof
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&proof, proofID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		switch proof.Status {
		case db.StatusApproved:
			return ErrAlreadyApproved
		case db.StatusRejected:
			return ErrInvalidStateTransition
		}

		now := time.Now()
		proof.Status = db.StatusApproved
		proof.ReviewedBy = &adminID
		proof.ReviewedAt = &now
		if err := tx.Save(&proof).Error; err != nil {
			return err
		}

		payment := db.Payment{
			UserID:        proof.UserID,
			PackageID:     proof.PackageID,
			ProofID:       proof.ID,
			TransactionID: proof.TransactionID,
			Status:        db.StatusApproved,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return postCommissions(tx, payment)
	})
	if err != nil {
		return err
	}

	monitoring.ProofsApproved.Inc()
	log.Info().Uint("proof", proofID).Uint("admin", adminID).Msg("payment proof approved")
	return nil
}

// RejectProof transitions a pending proof to rejected. No Payment or
// Commission is ever created for a rejected proof.
func RejectProof(proofID, adminID uint) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var proof db.PaymentProof
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&proof, proofID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if proof.Status != db.StatusPending {
			return ErrInvalidStateTransition
		}

		now := time.Now()
		proof.Status = db.StatusRejected
		proof.ReviewedBy = &adminID
		proof.ReviewedAt = &now
		return tx.Save(&proof).Error
	})
	if err != nil {
		return err
	}

	monitoring.ProofsRejected.Inc()
	return nil
}

// postCommissions posts at most two ledger rows per payment: one active
// commission to the purchaser's direct referrer and one passive
// commission to that referrer's own referrer. Depth stops at two levels.
func postCommissions(tx *gorm.DB, payment db.Payment) error {
	var buyer db.User
	if err := tx.First(&buyer, payment.UserID).Error; err != nil {
		return err
	}
	if buyer.ReferredBy == nil {
		return nil // self-registered, no upline, no commissions
	}

	var rate db.CommissionRate
	if err := tx.Where("package_id = ?", payment.PackageID).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := postCommission(tx, *buyer.ReferredBy, payment, db.CommissionActive, rate.ActiveAmount); err != nil {
		return err
	}

	var referrer db.User
	if err := tx.First(&referrer, *buyer.ReferredBy).Error; err != nil {
		return err
	}
	if referrer.ReferredBy == nil {
		return nil
	}
	return postCommission(tx, *referrer.ReferredBy, payment, db.CommissionPassive, rate.PassiveAmount)
}

func postCommission(tx *gorm.DB, beneficiaryID uint, payment db.Payment, commissionType string, amount int) error {
	commission := db.Commission{
		BeneficiaryID: beneficiaryID,
		SourceUserID:  payment.UserID,
		PackageID:     payment.PackageID,
		PaymentID:     payment.ID,
		Amount:        amount,
		Type:          commissionType,
	}
	if err := tx.Create(&commission).Error; err != nil {
		return err
	}

	referral := db.Referral{
		ReferrerID:       beneficiaryID,
		ReferredID:       payment.UserID,
		PackageID:        payment.PackageID,
		CommissionID:     commission.ID,
		CommissionAmount: amount,
		CommissionType:   commissionType,
		Status:           db.StatusApproved,
	}
	if err := tx.Create(&referral).Error; err != nil {
		return err
	}

	monitoring.CommissionsPosted.WithLabelValues(commissionType).Inc()
	return nil
}
