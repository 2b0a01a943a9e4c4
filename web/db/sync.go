package db

import "github.com/rs/zerolog/log"

func Sync() {
	err := DB.AutoMigrate(
		&User{},
		&Package{},
		&CommissionRate{},
		&PaymentProof{},
		&Payment{},
		&Commission{},
		&Referral{},
		&WithdrawalRequest{},
	)
	if err != nil {
		panic(err)
	}

	seedPackages()
}

type packageSeed struct {
	Name          string
	Price         int
	ActiveAmount  int
	PassiveAmount int
}

// reference price/commission table, only inserted when the packages
// table is empty so admin edits survive restarts
var defaultPackages = []packageSeed{
	{"E-LITE", 699, 470, 50},
	{"SILVER", 1499, 1000, 100},
	{"GOLD", 2999, 2000, 250},
	{"DIAMOND", 4999, 3400, 400},
	{"PLATINUM", 9999, 6700, 800},
	{"ULTRA PRO", 14999, 10000, 1100},
}

func seedPackages() {
	var count int64
	if err := DB.Model(&Package{}).Count(&count).Error; err != nil {
		panic(err)
	}
	if count > 0 {
		return
	}

	for _, seed := range defaultPackages {
		pkg := Package{Name: seed.Name, Price: seed.Price, Active: true}
		if err := DB.Create(&pkg).Error; err != nil {
			panic(err)
		}
		rate := CommissionRate{
			PackageID:     pkg.ID,
			ActiveAmount:  seed.ActiveAmount,
			PassiveAmount: seed.PassiveAmount,
		}
		if err := DB.Create(&rate).Error; err != nil {
			panic(err)
		}
	}

	log.Info().Int("packages", len(defaultPackages)).Msg("seeded default packages")
}
