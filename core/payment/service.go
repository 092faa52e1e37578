package payment

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("payment not found")
	ErrNotRefundable = errors.New("only completed payments can be refunded")
)

type (
	Repository interface {
		CreatePayment(pmt Payment) (Payment, error)
		QueryAllPayments() ([]Payment, error)
		GetPaymentByID(id string) (Payment, error)
		StudentPayments(studentID string) ([]Payment, error)
		// SearchPayments does a case-insensitive substring match across the
		// payment id, transaction id, method, status, and the resolved
		// student's name/email and course title. Results keep collection
		// order; no ranking.
		SearchPayments(query string) ([]Payment, error)
		UpdatePayment(pmt Payment) (Payment, error)
	}

	// UserGetter resolves students for notification emails.
	UserGetter interface {
		GetByID(id string) (user.User, error)
	}

	Service struct {
		repo    Repository
		users   UserGetter
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, users UserGetter, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, users: users, mailSvc: mailSvc}
}

func (svc *Service) Create(pmt Payment) (Payment, error) {
	return svc.repo.CreatePayment(pmt)
}

func (svc *Service) QueryAll() ([]Payment, error) {
	return svc.repo.QueryAllPayments()
}

func (svc *Service) GetByID(id string) (Payment, error) {
	return svc.repo.GetPaymentByID(id)
}

func (svc *Service) ByStudent(studentID string) ([]Payment, error) {
	return svc.repo.StudentPayments(studentID)
}

func (svc *Service) Search(query string) ([]Payment, error) {
	query = core.CleanString(query)
	if query == "" {
		return svc.repo.QueryAllPayments()
	}
	return svc.repo.SearchPayments(query)
}

// Refund refunds part or all of a completed payment. It touches the payment
// ledger only: the related enrollment's payment status and the course's
// enrolled-student count are left as they are.
func (svc *Service) Refund(paymentID string, amount float64, reason string) (Payment, error) {
	pmt, err := svc.repo.GetPaymentByID(paymentID)
	if err != nil {
		return Payment{}, err
	}
	if pmt.Status != StatusCompleted {
		return Payment{}, ErrNotRefundable
	}
	if amount <= 0 || amount > pmt.Amount {
		return Payment{}, core.NewValidationError(
			errors.New("invalid refund amount"),
			core.FieldError{Field: "refund_amount", Error: "must be greater than 0 and at most the payment amount"},
		)
	}

	now := time.Now().UTC()
	if amount < pmt.Amount {
		pmt.Status = StatusPartiallyRefunded
	} else {
		pmt.Status = StatusRefunded
	}
	pmt.RefundAmount = amount
	pmt.RefundReason = core.CleanString(reason)
	pmt.RefundedAt = &now

	pmt, err = svc.repo.UpdatePayment(pmt)
	if err != nil {
		return Payment{}, err
	}
	svc.sendRefundNotice(pmt)
	return pmt, nil
}

// UpdateStatus overwrites the payment status unconditionally; no transition
// legality is checked. The first transition to completed stamps CompletedAt.
func (svc *Service) UpdateStatus(paymentID, status string) (Payment, error) {
	var known bool
	for _, s := range AllStatuses {
		if status == s {
			known = true
			break
		}
	}
	if !known {
		return Payment{}, core.NewValidationError(
			errors.New("invalid payment status"),
			core.FieldError{Field: "status", Error: "unknown payment status"},
		)
	}

	pmt, err := svc.repo.GetPaymentByID(paymentID)
	if err != nil {
		return Payment{}, err
	}
	pmt.Status = status
	if status == StatusCompleted && pmt.CompletedAt == nil {
		now := time.Now().UTC()
		pmt.CompletedAt = &now
	}
	return svc.repo.UpdatePayment(pmt)
}

func (svc *Service) sendRefundNotice(pmt Payment) {
	if svc.mailSvc == nil {
		return
	}
	usr, err := svc.users.GetByID(pmt.StudentID)
	if err != nil {
		return // ledger rows may outlive their student; nothing to notify
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name(), Address: usr.Email}},
		Subject: "Your refund has been processed",
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nWe have refunded %.2f %s for payment %s.\nReason: %s\n",
			usr.FirstName, pmt.RefundAmount, pmt.Currency, pmt.ID, pmt.RefundReason,
		),
	})
}
