package ledger

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go-affiliate/web/db"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// these tests need a real MySQL instance because the core relies on
// SELECT ... FOR UPDATE row locks; point TEST_DB_DSN at a throwaway
// database to run them
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping database tests")
	}

	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	db.DB = gdb

	err = db.DB.Migrator().DropTable(
		&db.User{}, &db.Package{}, &db.CommissionRate{}, &db.PaymentProof{},
		&db.Payment{}, &db.Commission{}, &db.Referral{}, &db.WithdrawalRequest{},
	)
	if err != nil {
		t.Fatalf("failed to reset schema: %v", err)
	}

	db.Sync()
}

var userSeq int

func createUser(t *testing.T, referredBy *uint) db.User {
	t.Helper()
	userSeq++
	user := db.User{
		Email:      fmt.Sprintf("user%d@test.local", userSeq),
		Password:   "x",
		Role:       db.RoleUser,
		ReferredBy: referredBy,
		IsVerified: true,
	}
	user.ReferralCode = fmt.Sprintf("code%d", userSeq)
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func pkgByName(t *testing.T, name string) db.Package {
	t.Helper()
	var pkg db.Package
	if err := db.DB.First(&pkg, "name = ?", name).Error; err != nil {
		t.Fatalf("package %q not seeded: %v", name, err)
	}
	return pkg
}

func countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.DB.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func TestApproveIsIdempotent(t *testing.T) {
	setupTestDB(t)

	referrer := createUser(t, nil)
	buyer := createUser(t, &referrer.ID)
	admin := createUser(t, nil)
	gold := pkgByName(t, "GOLD")

	proof, err := SubmitProof(buyer.ID, gold.ID, "TXN-001", "blob-1")
	if err != nil {
		t.Fatalf("SubmitProof: %v", err)
	}

	if err := ApproveProof(proof.ID, admin.ID); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	err = ApproveProof(proof.ID, admin.ID)
	if !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}

	if got := countRows(t, &db.Payment{}); got != 1 {
		t.Errorf("expected exactly 1 payment, got %d", got)
	}
	if got := countRows(t, &db.Commission{}); got != 1 {
		t.Errorf("expected exactly 1 commission, got %d", got)
	}
}

func TestCommissionTableFidelity(t *testing.T) {
	setupTestDB(t)

	table := map[string][2]int{
		"E-LITE":    {470, 50},
		"SILVER":    {1000, 100},
		"GOLD":      {2000, 250},
		"DIAMOND":   {3400, 400},
		"PLATINUM":  {6700, 800},
		"ULTRA PRO": {10000, 1100},
	}

	admin := createUser(t, nil)

	for name, amounts := range table {
		grand := createUser(t, nil)
		referrer := createUser(t, &grand.ID)
		buyer := createUser(t, &referrer.ID)
		pkg := pkgByName(t, name)

		proof, err := SubmitProof(buyer.ID, pkg.ID, "TXN-"+name, "blob")
		if err != nil {
			t.Fatalf("%s: SubmitProof: %v", name, err)
		}
		if err := ApproveProof(proof.ID, admin.ID); err != nil {
			t.Fatalf("%s: ApproveProof: %v", name, err)
		}

		var active db.Commission
		if err := db.DB.First(&active, "beneficiary_id = ? AND type = ?", referrer.ID, db.CommissionActive).Error; err != nil {
			t.Fatalf("%s: active commission missing: %v", name, err)
		}
		if active.Amount != amounts[0] {
			t.Errorf("%s: expected active %d, got %d", name, amounts[0], active.Amount)
		}

		var passive db.Commission
		if err := db.DB.First(&passive, "beneficiary_id = ? AND type = ?", grand.ID, db.CommissionPassive).Error; err != nil {
			t.Fatalf("%s: passive commission missing: %v", name, err)
		}
		if passive.Amount != amounts[1] {
			t.Errorf("%s: expected passive %d, got %d", name, amounts[1], passive.Amount)
		}
	}
}

func TestNoReferrerPostsNothing(t *testing.T) {
	setupTestDB(t)

	buyer := createUser(t, nil)
	admin := createUser(t, nil)
	gold := pkgByName(t, "GOLD")

	proof, err := SubmitProof(buyer.ID, gold.ID, "TXN-002", "blob")
	if err != nil {
		t.Fatalf("SubmitProof: %v", err)
	}
	if err := ApproveProof(proof.ID, admin.ID); err != nil {
		t.Fatalf("ApproveProof: %v", err)
	}

	if got := countRows(t, &db.Commission{}); got != 0 {
		t.Errorf("expected 0 commissions, got %d", got)
	}
	if got := countRows(t, &db.Referral{}); got != 0 {
		t.Errorf("expected 0 referrals, got %d", got)
	}
	if got := countRows(t, &db.Payment{}); got != 1 {
		t.Errorf("expected 1 payment, got %d", got)
	}
}

func TestTerminalProofStates(t *testing.T) {
	setupTestDB(t)

	buyer := createUser(t, nil)
	admin := createUser(t, nil)
	gold := pkgByName(t, "GOLD")

	rejected, err := SubmitProof(buyer.ID, gold.ID, "TXN-003", "blob")
	if err != nil {
		t.Fatalf("SubmitProof: %v", err)
	}
	if err := RejectProof(rejected.ID, admin.ID); err != nil {
		t.Fatalf("RejectProof: %v", err)
	}

	if err := ApproveProof(rejected.ID, admin.ID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("approve of rejected proof: expected ErrInvalidStateTransition, got %v", err)
	}
	if err := RejectProof(rejected.ID, admin.ID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("double reject: expected ErrInvalidStateTransition, got %v", err)
	}
	if got := countRows(t, &db.Payment{}); got != 0 {
		t.Errorf("rejected proof produced a payment")
	}

	approved, err := SubmitProof(buyer.ID, gold.ID, "TXN-004", "blob")
	if err != nil {
		t.Fatalf("SubmitProof: %v", err)
	}
	if err := ApproveProof(approved.ID, admin.ID); err != nil {
		t.Fatalf("ApproveProof: %v", err)
	}
	if err := RejectProof(approved.ID, admin.ID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("reject of approved proof: expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestRecordReferralValidation(t *testing.T) {
	setupTestDB(t)

	a := createUser(t, nil)
	b := createUser(t, nil)

	if err := RecordReferral(a.ID, a.ID); !errors.Is(err, ErrSelfReferral) {
		t.Errorf("expected ErrSelfReferral, got %v", err)
	}
	if err := RecordReferral(a.ID, 99999); !errors.Is(err, ErrUnknownReferrer) {
		t.Errorf("expected ErrUnknownReferrer, got %v", err)
	}

	if err := RecordReferral(b.ID, a.ID); err != nil {
		t.Fatalf("RecordReferral: %v", err)
	}
	if err := RecordReferral(b.ID, a.ID); !errors.Is(err, ErrAlreadyReferred) {
		t.Errorf("expected ErrAlreadyReferred, got %v", err)
	}

	ref, err := GetReferrer(b.ID)
	if err != nil {
		t.Fatalf("GetReferrer: %v", err)
	}
	if ref == nil || *ref != a.ID {
		t.Errorf("expected referrer %d, got %v", a.ID, ref)
	}
}

func TestWithdrawalConservation(t *testing.T) {
	setupTestDB(t)

	a := createUser(t, nil)
	b := createUser(t, &a.ID)
	admin := createUser(t, nil)
	gold := pkgByName(t, "GOLD") // pays 2000 active

	proof, err := SubmitProof(b.ID, gold.ID, "TXN-005", "blob")
	if err != nil {
		t.Fatalf("SubmitProof: %v", err)
	}
	if err := ApproveProof(proof.ID, admin.ID); err != nil {
		t.Fatalf("ApproveProof: %v", err)
	}

	if _, err := CreateWithdrawal(a.ID, 0, ""); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := CreateWithdrawal(a.ID, -5, ""); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	if _, err := CreateWithdrawal(a.ID, 1500, "first"); err != nil {
		t.Fatalf("first withdrawal: %v", err)
	}
	// 1500 of 2000 is now outstanding, 501 must not fit
	if _, err := CreateWithdrawal(a.ID, 501, "too much"); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	request, err := CreateWithdrawal(a.ID, 500, "rest")
	if err != nil {
		t.Fatalf("second withdrawal: %v", err)
	}

	// rejecting frees the amount again
	if err := DecideWithdrawal(request.ID, admin.ID, db.StatusRejected); err != nil {
		t.Fatalf("DecideWithdrawal: %v", err)
	}
	if _, err := CreateWithdrawal(a.ID, 500, "retry"); err != nil {
		t.Errorf("withdrawal after rejection should pass, got %v", err)
	}
}

func TestWithdrawalDecisionIsFinal(t *testing.T) {
	setupTestDB(t)

	a := createUser(t, nil)
	b := createUser(t, &a.ID)
	admin := createUser(t, nil)
	gold := pkgByName(t, "GOLD")

	proof, _ := SubmitProof(b.ID, gold.ID, "TXN-006", "blob")
	if err := ApproveProof(proof.ID, admin.ID); err != nil {
		t.Fatalf("ApproveProof: %v", err)
	}

	request, err := CreateWithdrawal(a.ID, 1000, "")
	if err != nil {
		t.Fatalf("CreateWithdrawal: %v", err)
	}

	if err := DecideWithdrawal(request.ID, admin.ID, "paid"); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("invalid target status: expected ErrInvalidStateTransition, got %v", err)
	}
	if err := DecideWithdrawal(request.ID, admin.ID, db.StatusApproved); err != nil {
		t.Fatalf("DecideWithdrawal: %v", err)
	}
	if err := DecideWithdrawal(request.ID, admin.ID, db.StatusRejected); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("re-deciding: expected ErrInvalidStateTransition, got %v", err)
	}
}

// the end-to-end scenario: B registers under A, buys GOLD, A earns 2000
// and can withdraw at most that
func TestReferralPurchaseScenario(t *testing.T) {
	setupTestDB(t)

	a := createUser(t, nil)
	b := createUser(t, &a.ID)
	admin := createUser(t, nil)
	gold := pkgByName(t, "GOLD")

	proof, err := SubmitProof(b.ID, gold.ID, "TXN-007", "blob")
	if err != nil {
		t.Fatalf("SubmitProof: %v", err)
	}
	if err := ApproveProof(proof.ID, admin.ID); err != nil {
		t.Fatalf("ApproveProof: %v", err)
	}

	var payment db.Payment
	if err := db.DB.First(&payment, "user_id = ?", b.ID).Error; err != nil {
		t.Fatalf("payment missing: %v", err)
	}
	if payment.Status != db.StatusApproved || payment.PackageID != gold.ID {
		t.Errorf("unexpected payment %+v", payment)
	}

	var commission db.Commission
	if err := db.DB.First(&commission, "beneficiary_id = ?", a.ID).Error; err != nil {
		t.Fatalf("commission missing: %v", err)
	}
	if commission.Type != db.CommissionActive || commission.Amount != 2000 || commission.SourceUserID != b.ID {
		t.Errorf("unexpected commission %+v", commission)
	}

	var passiveCount int64
	db.DB.Model(&db.Commission{}).Where("type = ?", db.CommissionPassive).Count(&passiveCount)
	if passiveCount != 0 {
		t.Errorf("expected no passive commission, got %d", passiveCount)
	}

	earnings, err := GetEarnings(a.ID, time.Now())
	if err != nil {
		t.Fatalf("GetEarnings: %v", err)
	}
	if earnings.Lifetime != 2000 {
		t.Errorf("expected lifetime 2000, got %d", earnings.Lifetime)
	}

	totals, err := GetTotalCommissions(a.ID)
	if err != nil {
		t.Fatalf("GetTotalCommissions: %v", err)
	}
	if totals.TotalActive != 2000 || totals.TotalPassive != 0 || totals.Pending != 0 {
		t.Errorf("unexpected totals %+v", totals)
	}

	if _, err := CreateWithdrawal(a.ID, 2500, ""); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	request, err := CreateWithdrawal(a.ID, 2000, "")
	if err != nil {
		t.Fatalf("CreateWithdrawal: %v", err)
	}
	if request.Status != db.StatusPending {
		t.Errorf("expected pending request, got %s", request.Status)
	}
}

func TestEarningsWindows(t *testing.T) {
	setupTestDB(t)

	a := createUser(t, nil)
	b := createUser(t, &a.ID)
	admin := createUser(t, nil)
	elite := pkgByName(t, "E-LITE") // pays 470 active

	approve := func(txn string) db.Commission {
		proof, err := SubmitProof(b.ID, elite.ID, txn, "blob")
		if err != nil {
			t.Fatalf("SubmitProof: %v", err)
		}
		if err := ApproveProof(proof.ID, admin.ID); err != nil {
			t.Fatalf("ApproveProof: %v", err)
		}
		var commission db.Commission
		if err := db.DB.Last(&commission, "beneficiary_id = ?", a.ID).Error; err != nil {
			t.Fatalf("commission missing: %v", err)
		}
		return commission
	}

	now := time.Now().UTC()

	approve("TXN-W1") // stays in today's window

	// backdate one commission out of the daily and weekly windows but
	// inside the monthly one, and one out of everything but lifetime
	lastWeek := approve("TXN-W2")
	db.DB.Model(&lastWeek).Update("created_at", WeekStart(now).Add(-24*time.Hour))
	lastYear := approve("TXN-W3")
	db.DB.Model(&lastYear).Update("created_at", now.AddDate(-1, 0, 0))

	earnings, err := GetEarnings(a.ID, now)
	if err != nil {
		t.Fatalf("GetEarnings: %v", err)
	}

	if earnings.Today != 470 {
		t.Errorf("expected today 470, got %d", earnings.Today)
	}
	if earnings.Weekly != 470 {
		t.Errorf("expected weekly 470, got %d", earnings.Weekly)
	}
	if earnings.Lifetime != 3*470 {
		t.Errorf("expected lifetime %d, got %d", 3*470, earnings.Lifetime)
	}
	if earnings.Monthly < earnings.Weekly || earnings.Lifetime < earnings.Monthly {
		t.Errorf("windows must be nested: %+v", earnings)
	}

	// lifetime never decreases
	approve("TXN-W4")
	after, err := GetEarnings(a.ID, now)
	if err != nil {
		t.Fatalf("GetEarnings: %v", err)
	}
	if after.Lifetime <= earnings.Lifetime {
		t.Errorf("lifetime did not grow: %d -> %d", earnings.Lifetime, after.Lifetime)
	}
}
