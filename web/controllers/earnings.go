package controllers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go-affiliate/ledger"
	"go-affiliate/web/db"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

func Earnings(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	earnings, err := ledger.GetEarnings(user.(db.User).ID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute earnings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}

func TotalCommissions(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	totals, err := ledger.GetTotalCommissions(user.(db.User).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute commission totals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commissions": totals})
}

func ReferralsByUser(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var referrals []db.Referral
	if err := db.DB.Where("referrer_id = ?", user.(db.User).ID).
		Order("created_at DESC").Find(&referrals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"referrals": referrals})
}

// PNG QR code of the user's signup link, for sharing from the dashboard
func ReferralQR(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userinfo := user.(db.User)

	link := fmt.Sprintf("http://%s/signup?ref=%s", os.Getenv("Web_Host"), userinfo.ReferralCode)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
