package orderserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-order-processor/internal/shared/errors"
)

var problems = apierrors.NewChainedResponder("", orderErrorMapper)

func respondValidation(c *gin.Context, field, msg string) {
	problems.ValidationFailed(c, map[string]string{field: msg})
}

// orderErrorMapper translates order processing failures into problem details.
// Anything it does not recognise falls through to a 500.
func orderErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	var (
		validation *application.ValidationError
		notFound   *application.OrderNotFoundError
		noHandler  *application.NoHandlerError
	)
	switch {
	case errors.As(err, &validation):
		return apierrors.NewValidationProblem(map[string]string{"orderId": validation.Error()}), true
	case errors.As(err, &notFound):
		return apierrors.NewNotFoundProblem("order", notFound.OrderID), true
	case errors.As(err, &noHandler):
		return apierrors.ErrNoHandler.
			WithDetail(fmt.Sprintf("product %d has unsupported type %q", noHandler.ProductID, noHandler.Type)).
			WithExtension("productId", noHandler.ProductID), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
