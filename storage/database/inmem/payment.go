package inmemdb

import (
	"strings"

	"github.com/trezcool/elimu/core/payment"
)

type paymentRepository struct {
	db *DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) query() []payment.Payment {
	pmts := make([]payment.Payment, 0, len(repo.db.paymentOrder))
	for _, id := range repo.db.paymentOrder {
		pmts = append(pmts, *repo.db.payments[id])
	}
	return pmts
}

func (repo *paymentRepository) CreatePayment(pmt payment.Payment) (payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	pmt.ID = repo.db.nextID()
	repo.db.payments[pmt.ID] = &pmt
	repo.db.paymentOrder = append(repo.db.paymentOrder, pmt.ID)
	return pmt, nil
}

func (repo *paymentRepository) QueryAllPayments() ([]payment.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.query(), nil
}

func (repo *paymentRepository) GetPaymentByID(id string) (payment.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if pmt, ok := repo.db.payments[id]; ok {
		return *pmt, nil
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) StudentPayments(studentID string) ([]payment.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	pmts := make([]payment.Payment, 0)
	for _, id := range repo.db.paymentOrder {
		if pmt := repo.db.payments[id]; pmt.StudentID == studentID {
			pmts = append(pmts, *pmt)
		}
	}
	return pmts, nil
}

func (repo *paymentRepository) SearchPayments(query string) ([]payment.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	query = strings.ToLower(query)
	pmts := make([]payment.Payment, 0)
	for _, id := range repo.db.paymentOrder {
		pmt := repo.db.payments[id]
		if repo.matches(pmt, query) {
			pmts = append(pmts, *pmt)
		}
	}
	return pmts, nil
}

// matches checks the payment's own fields plus the resolved student and
// course; callers hold at least a read lock.
func (repo *paymentRepository) matches(pmt *payment.Payment, query string) bool {
	fields := []string{pmt.ID, pmt.TransactionID, pmt.Method, pmt.Status}
	if usr, ok := repo.db.users[pmt.StudentID]; ok {
		fields = append(fields, usr.Name(), usr.Email)
	}
	if crs, ok := repo.db.courses[pmt.CourseID]; ok {
		fields = append(fields, crs.Title)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func (repo *paymentRepository) UpdatePayment(pmt payment.Payment) (payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	origPmt, ok := repo.db.payments[pmt.ID]
	if !ok {
		return payment.Payment{}, payment.ErrNotFound
	}
	origPmt.Status = pmt.Status
	origPmt.RefundAmount = pmt.RefundAmount
	origPmt.RefundReason = pmt.RefundReason
	origPmt.RefundedAt = pmt.RefundedAt
	origPmt.CompletedAt = pmt.CompletedAt

	return *origPmt, nil
}
