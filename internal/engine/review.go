package engine

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"storefront-engine/internal/domain"
)

var validate = validator.New()

// ReviewInput is what a customer submits; id and date are assigned on success.
type ReviewInput struct {
	ProductID int64  `validate:"required"`
	Author    string `validate:"required"`
	Rating    int    `validate:"required,min=1,max=5"` // 0 means no rating chosen
	Comment   string `validate:"required"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (in ReviewInput) Normalize() ReviewInput {
	in.Author = strings.TrimSpace(in.Author)
	in.Comment = strings.TrimSpace(in.Comment)
	return in
}

// ValidateReview checks a normalized input and reports every failing field.
func ValidateReview(in ReviewInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verr := &domain.ValidationError{Message: domain.ReviewIncompleteMessage}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, fe.Field())
		}
	}
	return verr
}

// IDSource hands out review ids derived from the wall clock in milliseconds,
// bumped past the last id issued so two reviews in the same tick never collide.
type IDSource struct {
	mu   sync.Mutex
	last int64
}

// NewIDSource starts issuing ids above floor, typically the largest seed id.
func NewIDSource(floor int64) *IDSource {
	return &IDSource{last: floor}
}

func (s *IDSource) Next(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := now.UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Reviews is the append-only review list, newest first.
type Reviews struct {
	list []domain.Review
}

// NewReviews seeds the list; seed order is taken as newest-first.
func NewReviews(seed []domain.Review) Reviews {
	return Reviews{list: slices.Clone(seed)}
}

// All returns every review, newest first. Never nil.
func (r Reviews) All() []domain.Review {
	if r.list == nil {
		return []domain.Review{}
	}
	return slices.Clone(r.list)
}

func (r Reviews) Len() int { return len(r.list) }

// MaxID returns the largest review id held, or 0.
func (r Reviews) MaxID() int64 {
	var top int64
	for _, rv := range r.list {
		if rv.ID > top {
			top = rv.ID
		}
	}
	return top
}

// Add validates in and, on success, prepends a review stamped with id and now.
// On a validation failure the receiver is returned unchanged with a
// *domain.ValidationError.
func (r Reviews) Add(in ReviewInput, id int64, now time.Time) (Reviews, domain.Review, error) {
	in = in.Normalize()
	if err := ValidateReview(in); err != nil {
		return r, domain.Review{}, err
	}
	rv := domain.Review{
		ID:        id,
		ProductID: in.ProductID,
		Author:    in.Author,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Date:      now.Format(domain.ReviewDateLayout),
	}
	next := make([]domain.Review, 0, len(r.list)+1)
	next = append(next, rv)
	next = append(next, r.list...)
	return Reviews{list: next}, rv, nil
}

// For returns the reviews of productID, newest first. Never nil.
func (r Reviews) For(productID int64) []domain.Review {
	out := make([]domain.Review, 0)
	for _, rv := range r.list {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out
}
