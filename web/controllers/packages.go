package controllers

import (
	"net/http"
	"strconv"

	"go-affiliate/web/db"

	"github.com/gin-gonic/gin"
)

type packageView struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	Active        bool   `json:"active"`
	ActiveAmount  int    `json:"active_commission"`
	PassiveAmount int    `json:"passive_commission"`
}

func ListPackages(c *gin.Context) {
	var packages []db.Package
	if err := db.DB.Where("active = ?", true).Order("price ASC").Find(&packages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch packages"})
		return
	}

	views := []packageView{}
	for _, pkg := range packages {
		var rate db.CommissionRate
		db.DB.Where("package_id = ?", pkg.ID).First(&rate)
		views = append(views, packageView{
			ID:            pkg.ID,
			Name:          pkg.Name,
			Price:         pkg.Price,
			Active:        pkg.Active,
			ActiveAmount:  rate.ActiveAmount,
			PassiveAmount: rate.PassiveAmount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"packages": views})
}

func CreatePackage(c *gin.Context) {
	var req struct {
		Name          string `json:"name"`
		Price         int    `json:"price"`
		ActiveAmount  int    `json:"active_commission"`
		PassiveAmount int    `json:"passive_commission"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name == "" || req.Price <= 0 || req.ActiveAmount < 0 || req.PassiveAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package fields"})
		return
	}
	// commissions paid out on a sale must never exceed the sale itself
	if req.ActiveAmount+req.PassiveAmount > req.Price {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Commission amounts exceed package price"})
		return
	}

	pkg := db.Package{Name: req.Name, Price: req.Price, Active: true}
	if err := db.DB.Create(&pkg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create package"})
		return
	}

	rate := db.CommissionRate{
		PackageID:     pkg.ID,
		ActiveAmount:  req.ActiveAmount,
		PassiveAmount: req.PassiveAmount,
	}
	if err := db.DB.Create(&rate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create commission rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"package": pkg})
}

func UpdatePackage(c *gin.Context) {
	packageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package id"})
		return
	}

	var req struct {
		Price         *int  `json:"price"`
		Active        *bool `json:"active"`
		ActiveAmount  *int  `json:"active_commission"`
		PassiveAmount *int  `json:"passive_commission"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var pkg db.Package
	if err := db.DB.First(&pkg, uint(packageID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
		return
	}

	var rate db.CommissionRate
	if err := db.DB.Where("package_id = ?", pkg.ID).First(&rate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commission rate not found"})
		return
	}

	if req.Price != nil {
		pkg.Price = *req.Price
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if req.ActiveAmount != nil {
		rate.ActiveAmount = *req.ActiveAmount
	}
	if req.PassiveAmount != nil {
		rate.PassiveAmount = *req.PassiveAmount
	}

	if pkg.Price <= 0 || rate.ActiveAmount < 0 || rate.PassiveAmount < 0 ||
		rate.ActiveAmount+rate.PassiveAmount > pkg.Price {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package fields"})
		return
	}

	if err := db.DB.Save(&pkg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update package"})
		return
	}
	if err := db.DB.Save(&rate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update commission rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"package": pkg})
}
