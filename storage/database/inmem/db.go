// Package inmemdb is the storage backend: mutex-guarded in-memory tables
// shared by reference across every repository. A single store-wide lock keeps
// the cross-table operations (enroll, review insert + rating refresh) atomic
// with respect to every reader.
package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/message"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/review"
	"github.com/trezcool/elimu/core/settings"
	"github.com/trezcool/elimu/core/user"
)

type DB struct {
	mu     sync.RWMutex
	idFunc func() string

	// tables; the *Order slices preserve insertion order, which query
	// results follow
	users     map[string]*user.User
	userOrder []string

	courses     map[string]*course.Course
	courseOrder []string

	materials     map[string]*course.Material
	materialOrder []string

	wishlist      map[string]*course.WishlistItem
	wishlistOrder []string

	enrollments     map[string]*enrollment.Enrollment
	enrollmentOrder []string

	payments     map[string]*payment.Payment
	paymentOrder []string

	reviews     map[string]*review.Review
	reviewOrder []string

	votes     map[string]*review.HelpfulVote // keyed reviewID + "/" + userID
	voteOrder []string

	messages     map[string]*message.Message
	messageOrder []string

	settings map[string]*settings.Setting
	keyOrder []string
}

type Option func(*DB)

// WithIDFunc overrides the ID generator; tests use it to pin IDs.
func WithIDFunc(f func() string) Option {
	return func(db *DB) { db.idFunc = f }
}

func Open(opts ...Option) (*DB, error) {
	db := &DB{
		idFunc:      func() string { return uuid.New().String() },
		users:       make(map[string]*user.User),
		courses:     make(map[string]*course.Course),
		materials:   make(map[string]*course.Material),
		wishlist:    make(map[string]*course.WishlistItem),
		enrollments: make(map[string]*enrollment.Enrollment),
		payments:    make(map[string]*payment.Payment),
		reviews:     make(map[string]*review.Review),
		votes:       make(map[string]*review.HelpfulVote),
		messages:    make(map[string]*message.Message),
		settings:    make(map[string]*settings.Setting),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

func (db *DB) nextID() string { return db.idFunc() }

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
