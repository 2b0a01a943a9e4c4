package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"go-affiliate/ledger"
	"go-affiliate/web/db"

	"github.com/gin-gonic/gin"
)

func SubmitProof(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userinfo := user.(db.User)

	var req struct {
		PackageID     uint   `json:"package_id"`
		TransactionID string `json:"transaction_id"`
		Screenshot    string `json:"screenshot"` // blob store handle from the upload step
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.TransactionID == "" || req.Screenshot == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id and screenshot are required"})
		return
	}

	proof, err := ledger.SubmitProof(userinfo.ID, req.PackageID, req.TransactionID, req.Screenshot)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"proof": proof})
}

func MyProofs(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var proofs []db.PaymentProof
	if err := db.DB.Where("user_id = ?", user.(db.User).ID).
		Order("created_at DESC").Find(&proofs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proofs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"proofs": proofs})
}

func ProofsByStatus(c *gin.Context) {
	status := c.DefaultQuery("status", db.StatusPending)

	var proofs []db.PaymentProof
	if err := db.DB.Where("status = ?", status).
		Order("created_at ASC").Find(&proofs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proofs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"proofs": proofs})
}

func ApproveProof(c *gin.Context) {
	proofID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proof id"})
		return
	}

	admin := c.MustGet("user").(db.User)

	err = ledger.ApproveProof(uint(proofID), admin.ID)
	if errors.Is(err, ledger.ErrAlreadyApproved) {
		// second approval of the same proof is a no-op, not an error
		c.JSON(http.StatusOK, gin.H{"message": "Proof already approved"})
		return
	}
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proof approved"})
}

func RejectProof(c *gin.Context) {
	proofID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proof id"})
		return
	}

	admin := c.MustGet("user").(db.User)

	if err := ledger.RejectProof(uint(proofID), admin.ID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proof rejected"})
}
