package controllers

import (
	"net/http"

	"go-affiliate/web/db"

	"github.com/gin-gonic/gin"
)

// read-only platform-wide counters for the admin dashboard
func AdminStats(c *gin.Context) {
	var totalUsers, pendingProofs, approvedPayments int64
	var pendingWithdrawals int64

	db.DB.Model(&db.User{}).Count(&totalUsers)
	db.DB.Model(&db.PaymentProof{}).Where("status = ?", db.StatusPending).Count(&pendingProofs)
	db.DB.Model(&db.Payment{}).Where("status = ?", db.StatusApproved).Count(&approvedPayments)
	db.DB.Model(&db.WithdrawalRequest{}).Where("status = ?", db.StatusPending).Count(&pendingWithdrawals)

	var commissionsTotal int64
	db.DB.Model(&db.Commission{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&commissionsTotal)

	var withdrawnTotal int64
	db.DB.Model(&db.WithdrawalRequest{}).
		Where("status = ?", db.StatusApproved).
		Select("COALESCE(SUM(amount), 0)").Scan(&withdrawnTotal)

	var pendingWithdrawalSum int64
	db.DB.Model(&db.WithdrawalRequest{}).
		Where("status = ?", db.StatusPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&pendingWithdrawalSum)

	c.JSON(http.StatusOK, gin.H{
		"total_users":            totalUsers,
		"pending_proofs":         pendingProofs,
		"approved_payments":      approvedPayments,
		"commissions_total":      commissionsTotal,
		"pending_withdrawals":    pendingWithdrawals,
		"pending_withdrawal_sum": pendingWithdrawalSum,
		"withdrawn_total":        withdrawnTotal,
	})
}
