package controllers

import (
	"net/http"
	"strconv"

	"go-affiliate/ledger"
	"go-affiliate/web/db"
	"go-affiliate/web/email"

	"github.com/gin-gonic/gin"
)

func CreateWithdrawal(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userinfo := user.(db.User)

	var req struct {
		Amount  int    `json:"amount"` // in minor currency units
		Message string `json:"message"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	request, err := ledger.CreateWithdrawal(userinfo.ID, req.Amount, req.Message)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request})
}

func MyWithdrawals(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var requests []db.WithdrawalRequest
	if err := db.DB.Where("user_id = ?", user.(db.User).ID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch withdrawal requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func WithdrawalsByStatus(c *gin.Context) {
	status := c.DefaultQuery("status", db.StatusPending)

	var requests []db.WithdrawalRequest
	if err := db.DB.Where("status = ?", status).
		Order("created_at ASC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch withdrawal requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func UpdateWithdrawalStatus(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	var req struct {
		Status string `json:"status"` // approved or rejected
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	admin := c.MustGet("user").(db.User)

	if err := ledger.DecideWithdrawal(uint(requestID), admin.ID, req.Status); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	// notify the requester, failures here do not affect the decision
	go func(id uint, status string) {
		var request db.WithdrawalRequest
		if err := db.DB.First(&request, id).Error; err != nil {
			return
		}
		var owner db.User
		if err := db.DB.First(&owner, request.UserID).Error; err != nil {
			return
		}
		email.SendWithdrawalDecisionEmail(owner.Email, request.Amount, status)
	}(uint(requestID), req.Status)

	c.JSON(http.StatusOK, gin.H{"message": "Withdrawal request updated"})
}
