package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPaymentRepositoryTest(t *testing.T) (*GormPaymentRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.PaymentRequest{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPaymentRepository(db), db
}

func newTestPayment(requestID uint, token, status string) *models.Payment {
	return &models.Payment{
		PaymentRequestID: requestID,
		OperatorID:       1,
		Amount:           models.NewMoneyFromDecimal(decimal.NewFromInt(45000)),
		Currency:         constants.DefaultCurrency,
		Status:           status,
		Method:           constants.PaymentMethodAirtel,
		Provider:         constants.PaymentProviderMypayga,
		ProviderToken:    token,
		PhoneNumber:      "+24107000000",
	}
}

func TestPaymentRepositoryGetByProviderToken(t *testing.T) {
	repo, _ := setupPaymentRepositoryTest(t)

	payment := newTestPayment(1, "TOK-LOOKUP-1", constants.PaymentStatusPending)
	if err := repo.Create(payment); err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	found, err := repo.GetByProviderToken("TOK-LOOKUP-1")
	if err != nil {
		t.Fatalf("get by provider token failed: %v", err)
	}
	if found == nil || found.ID != payment.ID {
		t.Fatalf("expected payment %d, got: %+v", payment.ID, found)
	}

	missing, err := repo.GetByProviderToken("TOK-UNKNOWN")
	if err != nil {
		t.Fatalf("lookup of unknown token should not error: %v", err)
	}
	if missing != nil {
		t.Fatalf("unknown token should return nil, got: %+v", missing)
	}

	empty, err := repo.GetByProviderToken("  ")
	if err != nil || empty != nil {
		t.Fatalf("blank token should return nil, nil, got: %+v, %v", empty, err)
	}
}

func TestPaymentRepositoryProviderTokenUnique(t *testing.T) {
	repo, _ := setupPaymentRepositoryTest(t)

	if err := repo.Create(newTestPayment(1, "TOK-DUP", constants.PaymentStatusPending)); err != nil {
		t.Fatalf("create first payment failed: %v", err)
	}
	if err := repo.Create(newTestPayment(2, "TOK-DUP", constants.PaymentStatusPending)); err == nil {
		t.Fatalf("duplicate provider token should be rejected")
	}
}

func TestPaymentRepositoryListCursor(t *testing.T) {
	repo, _ := setupPaymentRepositoryTest(t)

	for i := 1; i <= 5; i++ {
		status := constants.PaymentStatusPending
		if i%2 == 0 {
			status = constants.PaymentStatusPaid
		}
		if err := repo.Create(newTestPayment(uint(i), fmt.Sprintf("TOK-LIST-%d", i), status)); err != nil {
			t.Fatalf("create payment %d failed: %v", i, err)
		}
	}

	first, err := repo.List(PaymentListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list first page failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(first))
	}
	if first[0].ID <= first[1].ID {
		t.Fatalf("list should be newest first, got ids %d, %d", first[0].ID, first[1].ID)
	}

	second, err := repo.List(PaymentListFilter{Limit: 2, StartAfterID: first[1].ID})
	if err != nil {
		t.Fatalf("list second page failed: %v", err)
	}
	if len(second) != 2 || second[0].ID >= first[1].ID {
		t.Fatalf("cursor should be exclusive, got: %+v", second)
	}

	paid, err := repo.List(PaymentListFilter{Status: constants.PaymentStatusPaid})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if len(paid) != 2 {
		t.Fatalf("expected 2 paid payments, got %d", len(paid))
	}
	for _, p := range paid {
		if p.Status != constants.PaymentStatusPaid {
			t.Fatalf("status filter leaked payment: %+v", p)
		}
	}
}

func TestPaymentRepositoryListLimitClamped(t *testing.T) {
	repo, _ := setupPaymentRepositoryTest(t)

	for i := 1; i <= 3; i++ {
		if err := repo.Create(newTestPayment(uint(i), fmt.Sprintf("TOK-CLAMP-%d", i), constants.PaymentStatusPending)); err != nil {
			t.Fatalf("create payment %d failed: %v", i, err)
		}
	}

	all, err := repo.List(PaymentListFilter{Limit: 10000})
	if err != nil {
		t.Fatalf("list with oversized limit failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 payments, got %d", len(all))
	}

	defaulted, err := repo.List(PaymentListFilter{Limit: -1})
	if err != nil || len(defaulted) != 3 {
		t.Fatalf("negative limit should fall back to default, got %d, %v", len(defaulted), err)
	}
}

func TestPaymentRepositoryListStalePending(t *testing.T) {
	repo, db := setupPaymentRepositoryTest(t)

	old := newTestPayment(1, "TOK-STALE-1", constants.PaymentStatusPending)
	if err := repo.Create(old); err != nil {
		t.Fatalf("create stale payment failed: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Payment{}).Where("id = ?", old.ID).Update("created_at", past).Error; err != nil {
		t.Fatalf("backdate payment failed: %v", err)
	}

	if err := repo.Create(newTestPayment(2, "TOK-STALE-2", constants.PaymentStatusPending)); err != nil {
		t.Fatalf("create fresh payment failed: %v", err)
	}
	if err := repo.Create(newTestPayment(3, "TOK-STALE-3", constants.PaymentStatusPaid)); err != nil {
		t.Fatalf("create paid payment failed: %v", err)
	}

	stale, err := repo.ListStalePending(time.Now().Add(-10*time.Minute), 10)
	if err != nil {
		t.Fatalf("list stale pending failed: %v", err)
	}
	if len(stale) != 1 || stale[0].ID != old.ID {
		t.Fatalf("expected only the backdated pending payment, got: %+v", stale)
	}
}

func TestPaymentRequestRepositoryLookups(t *testing.T) {
	_, db := setupPaymentRepositoryTest(t)
	repo := NewPaymentRequestRepository(db)

	request := &models.PaymentRequest{
		RequestNumber: "PR-2026-0001",
		OperatorID:    1,
		OperatorName:  "Boulangerie Moderne",
		TotalAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(45000)),
		Currency:      constants.DefaultCurrency,
		Status:        constants.PaymentRequestStatusPending,
		PaymentToken:  "TOK-REQ-1",
	}
	if err := repo.Create(request); err != nil {
		t.Fatalf("create payment request failed: %v", err)
	}

	byNumber, err := repo.GetByRequestNumber("PR-2026-0001")
	if err != nil || byNumber == nil || byNumber.ID != request.ID {
		t.Fatalf("get by request number failed: %+v, %v", byNumber, err)
	}

	byToken, err := repo.GetByPaymentToken("TOK-REQ-1")
	if err != nil || byToken == nil || byToken.ID != request.ID {
		t.Fatalf("get by payment token failed: %+v, %v", byToken, err)
	}

	missing, err := repo.GetByRequestNumber("PR-MISSING")
	if err != nil || missing != nil {
		t.Fatalf("unknown request number should return nil, nil, got: %+v, %v", missing, err)
	}
}

func TestPaymentRepositoryUpdateIfStatusGuard(t *testing.T) {
	repo, db := setupPaymentRepositoryTest(t)
	payment := newTestPayment(1, "TOK-GUARD-1", constants.PaymentStatusPending)
	if err := repo.Create(payment); err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	now := time.Now()
	payment.Status = constants.PaymentStatusPaid
	payment.PaidAt = &now
	payment.CallbackAt = &now
	payment.UpdatedAt = now
	payment.ProviderTxnID = "TXN-GUARD-1"
	applied, err := repo.UpdateIfStatus(payment, constants.PaymentStatusPending)
	if err != nil {
		t.Fatalf("guarded update failed: %v", err)
	}
	if !applied {
		t.Fatalf("guarded update on a pending row should apply")
	}

	stale := newTestPayment(1, "TOK-GUARD-1", constants.PaymentStatusPaid)
	stale.ID = payment.ID
	stale.ProviderTxnID = "TXN-GUARD-2"
	applied, err = repo.UpdateIfStatus(stale, constants.PaymentStatusPending)
	if err != nil {
		t.Fatalf("stale guarded update failed: %v", err)
	}
	if applied {
		t.Fatalf("guarded update must not apply once the row left pending")
	}

	var stored models.Payment
	if err := db.First(&stored, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if stored.Status != constants.PaymentStatusPaid || stored.ProviderTxnID != "TXN-GUARD-1" {
		t.Fatalf("stored payment clobbered by stale update: %+v", stored)
	}
}
