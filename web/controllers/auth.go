package controllers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"go-affiliate/ledger"
	"go-affiliate/web/db"
	"go-affiliate/web/email"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func Signup(c *gin.Context) {
	var body struct {
		Email        string
		Password     string
		ReferralCode string `json:"referral_code"`
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read body",
		})
		return
	}

	// resolve the referral code before creating anything, a bad code
	// should not leave a half-registered account behind
	var referrer db.User
	if body.ReferralCode != "" {
		db.DB.First(&referrer, "referral_code = ?", body.ReferralCode)
		if referrer.ID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid referral code",
			})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to hash password.",
		})
		return
	}

	user := db.User{
		Email:    body.Email,
		Password: string(hash),
		Role:     db.RoleUser,

		ReferralCode: strings.Split(uuid.New().String(), "-")[0],

		IsVerified:  false,
		VerifyToken: uuid.New().String(),
		TokenExpiry: time.Now().Add(24 * time.Hour), // token valid for 24 hours
	}

	result := db.DB.Create(&user)
	if result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to create user." + result.Error.Error(),
		})
		return
	}

	if referrer.ID != 0 {
		if err := ledger.RecordReferral(user.ID, referrer.ID); err != nil {
			log.Warn().Err(err).Uint("user", user.ID).Msg("failed to record referral")
		}
	}

	go func() {
		email.SendVerificationEmail(user.Email, user.VerifyToken)
	}()

	c.JSON(http.StatusOK, gin.H{
		"referral_code": user.ReferralCode,
	})
}

func Login(c *gin.Context) {
	var body struct {
		Email    string
		Password string
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read body",
		})
		return
	}

	var user db.User
	db.DB.First(&user, "email = ?", body.Email)
	if user.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid email or password",
		})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Email not verified, please click the link in the verification email",
		})
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid email or password",
		})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	tokenString, err := token.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to create token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
	})
}

func User(c *gin.Context) {
	user, _ := c.Get("user")

	userinfo := user.(db.User)

	c.JSON(http.StatusOK, gin.H{
		"email":         userinfo.Email,
		"role":          userinfo.Role,
		"referral_code": userinfo.ReferralCode,
		"referred_by":   userinfo.ReferredBy,
		"created_at":    userinfo.CreatedAt.Format(time.RFC3339),
	})
}
