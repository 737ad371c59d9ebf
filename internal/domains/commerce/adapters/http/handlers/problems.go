package handlers

import (
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	apierrors "github.com/Apurer/go-gin-commerce-api/internal/shared/errors"
)

// kindProblems is the transport-owned table from error kind to problem response.
var kindProblems = map[domain.Kind]apierrors.ProblemDetail{
	domain.KindInvalidInput:      apierrors.ErrValidation,
	domain.KindNotFound:          apierrors.ErrNotFound,
	domain.KindDuplicate:         apierrors.ErrDuplicate,
	domain.KindInsufficientStock: apierrors.ErrInsufficientStock,
	domain.KindConflict:          apierrors.ErrConflict,
}

// MapDomainError is an ErrorMapper for the commerce error kinds. Unknown kinds
// are left to the responder's internal error fallback.
func MapDomainError(err error) (apierrors.ProblemDetail, bool) {
	kind := domain.KindOf(err)
	problem, ok := kindProblems[kind]
	if !ok {
		return apierrors.ProblemDetail{}, false
	}
	return problem.WithDetail(err.Error()).WithExtension("kind", kind.String()), true
}
