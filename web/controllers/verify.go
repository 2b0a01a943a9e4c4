package controllers

import (
	"fmt"
	"net/http"
	"time"

	"go-affiliate/web/db"

	"github.com/gin-gonic/gin"
)

const verifyPage = `
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<style>
    body { font-family: Arial, sans-serif; background: #f2f2f2; display: flex; justify-content: center; align-items: center; height: 100vh; }
    .container { background: #fff; padding: 40px; border-radius: 10px; box-shadow: 0 4px 10px rgba(0,0,0,0.1); text-align: center; max-width: 400px; }
    h2 { color: %s; }
    p { color: #333; }
</style>
</head>
<body>
<div class="container">
<h2>%s</h2>
<p>%s</p>
</div>
</body>
</html>
`

func renderVerifyPage(c *gin.Context, status int, title, heading, message string) {
	color := "#2ecc71"
	if status != http.StatusOK {
		color = "#e74c3c"
	}
	page := fmt.Sprintf(verifyPage, title, color, heading, message)
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		renderVerifyPage(c, http.StatusBadRequest, "Verification Error",
			"Token is required", "Please check your email link and try again.")
		return
	}

	var user db.User
	result := db.DB.First(&user, "verify_token = ?", token)
	if result.Error != nil {
		renderVerifyPage(c, http.StatusBadRequest, "Verification Error",
			"Invalid token", "The verification link is invalid. Please sign up again.")
		return
	}

	if user.TokenExpiry.Before(time.Now()) {
		db.DB.Delete(&user)
		renderVerifyPage(c, http.StatusBadRequest, "Token Expired",
			"Token expired", "Your verification link has expired. Please sign up again.")
		return
	}

	user.IsVerified = true
	user.VerifyToken = ""
	db.DB.Save(&user)

	renderVerifyPage(c, http.StatusOK, "Email Verified",
		"Email Verified!", "Your email has been successfully verified. You can now log in.")
}
