package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/podsmith/internal/adapters/repository"
	service "github.com/okian/podsmith/internal/app"
	"github.com/okian/podsmith/internal/domain/flatten"
	"github.com/okian/podsmith/internal/domain/power"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// KindError carries the failing operation and a sentinel kind alongside the
// underlying cause. errors.Is matches both Kind and Err.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind for op with no further cause.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind returns err tagged with op and kind.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

// Wrap tags err with op, classifying it by the domain sentinel it carries.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return WrapKind(op, classify(err), err)
}

func classify(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateName),
		errors.Is(err, repository.ErrDuplicateID),
		errors.Is(err, repository.ErrCapacity),
		errors.Is(err, repository.ErrNothingToUndo):
		return ErrConflict
	case errors.Is(err, flatten.ErrInvalidGroup),
		errors.Is(err, flatten.ErrDuplicateName),
		errors.Is(err, flatten.ErrDuplicateParticipant),
		errors.Is(err, flatten.ErrEmptyName),
		errors.Is(err, flatten.ErrEmptyTierSet),
		errors.Is(err, repository.ErrEmptyName),
		errors.Is(err, repository.ErrEmptyTierSet),
		errors.Is(err, power.ErrEmptyTierSet),
		errors.Is(err, power.ErrInvalidTier),
		errors.Is(err, power.ErrUnknownBracket),
		errors.Is(err, service.ErrInvalidSettings),
		errors.Is(err, service.ErrTooManyParticipants),
		errors.Is(err, ErrBadRequest):
		return ErrBadRequest
	default:
		return ErrInternal
	}
}

// status maps an error to its HTTP status and response code.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, flatten.ErrInvalidGroup):
		return http.StatusBadRequest, "invalid_group"
	case errors.Is(err, power.ErrEmptyTierSet),
		errors.Is(err, flatten.ErrEmptyTierSet),
		errors.Is(err, repository.ErrEmptyTierSet):
		return http.StatusBadRequest, "empty_tier_set"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
