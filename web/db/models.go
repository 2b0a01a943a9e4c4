package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 3 status for proofs and withdrawal requests: pending is the only
// non-terminal one
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	CommissionActive  = "active"
	CommissionPassive = "passive"
)

type User struct {
	gorm.Model
	Email    string `gorm:"unique"`
	Password string
	Role     string `gorm:"default:user"`

	ReferralCode string `gorm:"uniqueIndex"`
	ReferredBy   *uint  `gorm:"index"` // set once at signup, never changes

	IsVerified  bool
	VerifyToken string
	TokenExpiry time.Time
}

type Package struct {
	gorm.Model
	Name   string `gorm:"unique"`
	Price  int    // in minor currency units
	Active bool
}

// commission amounts per package, active goes to the direct referrer,
// passive to the referrer's referrer
type CommissionRate struct {
	gorm.Model
	PackageID     uint `gorm:"uniqueIndex"`
	ActiveAmount  int
	PassiveAmount int
}

type PaymentProof struct {
	gorm.Model
	UserID        uint   `gorm:"index"`
	PackageID     uint   `gorm:"index"`
	TransactionID string // free text from the user, duplicates allowed
	Screenshot    string // opaque blob store handle, never inspected here
	Status        string `gorm:"index;default:pending"`
	ReviewedBy    *uint
	ReviewedAt    *time.Time
}

type Payment struct {
	gorm.Model
	UserID        uint `gorm:"index"`
	PackageID     uint
	ProofID       uint `gorm:"uniqueIndex"` // at most one payment per proof
	TransactionID string
	Status        string
}

// append-only, earnings are derived from these rows and nothing ever
// deletes or updates them
type Commission struct {
	gorm.Model
	BeneficiaryID uint `gorm:"index"`
	SourceUserID  uint
	PackageID     uint
	PaymentID     uint `gorm:"index"`
	Amount        int
	Type          string // active or passive
}

// per-referrer projection of a Commission row for the dashboard
type Referral struct {
	gorm.Model
	ReferrerID       uint `gorm:"index"`
	ReferredID       uint
	PackageID        uint
	CommissionID     uint
	CommissionAmount int
	CommissionType   string
	Status           string `gorm:"default:approved"` // pending, approved, paid
}

type WithdrawalRequest struct {
	gorm.Model
	UserID     uint `gorm:"index"`
	Amount     int
	Message    string
	Status     string `gorm:"index;default:pending"`
	ReviewedBy *uint
	ReviewedAt *time.Time
}
