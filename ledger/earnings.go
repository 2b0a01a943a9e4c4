package ledger

import (
	"time"

	"go-affiliate/web/db"

	"gorm.io/gorm"
)

// All earnings windows use UTC: today is the UTC calendar day, weekly
// the ISO week starting Monday 00:00 UTC, monthly the UTC calendar
// month. Lifetime is unbounded.
type Earnings struct {
	Today    int `json:"today"`
	Weekly   int `json:"weekly"`
	Monthly  int `json:"monthly"`
	Lifetime int `json:"lifetime"`
}

type TotalCommissions struct {
	TotalActive  int `json:"total_active"`
	TotalPassive int `json:"total_passive"`
	Pending      int `json:"pending"`
}

func DayStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func WeekStart(now time.Time) time.Time {
	day := DayStart(now)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO weeks start on Monday, Sunday is day 7
	}
	return day.AddDate(0, 0, 1-weekday)
}

func MonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// GetEarnings sums the commission ledger for one beneficiary. Reads are
// plain queries, a read racing a concurrent approval may miss the new
// row; the dashboard re-fetches after mutations.
func GetEarnings(userID uint, now time.Time) (Earnings, error) {
	today, err := sumSince(userID, DayStart(now))
	if err != nil {
		return Earnings{}, err
	}
	weekly, err := sumSince(userID, WeekStart(now))
	if err != nil {
		return Earnings{}, err
	}
	monthly, err := sumSince(userID, MonthStart(now))
	if err != nil {
		return Earnings{}, err
	}
	lifetime, err := LifetimeEarnings(db.DB, userID)
	if err != nil {
		return Earnings{}, err
	}

	return Earnings{Today: today, Weekly: weekly, Monthly: monthly, Lifetime: lifetime}, nil
}

func sumSince(userID uint, since time.Time) (int, error) {
	var total int64
	err := db.DB.Model(&db.Commission{}).
		Where("beneficiary_id = ? AND created_at >= ?", userID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}

// LifetimeEarnings takes the handle explicitly so the withdrawal path
// can run it inside its own transaction.
func LifetimeEarnings(tx *gorm.DB, userID uint) (int, error) {
	var total int64
	err := tx.Model(&db.Commission{}).
		Where("beneficiary_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}

// GetTotalCommissions splits lifetime earnings by commission type.
// Pending sums referral rows not yet approved or paid; commissions are
// only posted on approval today, so it stays zero unless a pre-post
// design is adopted later.
func GetTotalCommissions(userID uint) (TotalCommissions, error) {
	active, err := sumByType(userID, db.CommissionActive)
	if err != nil {
		return TotalCommissions{}, err
	}
	passive, err := sumByType(userID, db.CommissionPassive)
	if err != nil {
		return TotalCommissions{}, err
	}

	var pending int64
	err = db.DB.Model(&db.Referral{}).
		Where("referrer_id = ? AND status = ?", userID, db.StatusPending).
		Select("COALESCE(SUM(commission_amount), 0)").
		Scan(&pending).Error
	if err != nil {
		return TotalCommissions{}, err
	}

	return TotalCommissions{TotalActive: active, TotalPassive: passive, Pending: int(pending)}, nil
}

func sumByType(userID uint, commissionType string) (int, error) {
	var total int64
	err := db.DB.Model(&db.Commission{}).
		Where("beneficiary_id = ? AND type = ?", userID, commissionType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}
