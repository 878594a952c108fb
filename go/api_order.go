package orderserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. workflows may be nil, in which case the service runs inline.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /orders/:orderId/processOrder
// Process an order against current stock
func (api *OrderAPI) ProcessOrder(c *gin.Context) {
	var orderId int64
	err := runtime.BindStyledParameterWithLocation("simple", false, "orderId", runtime.ParamLocationPath, c.Param("orderId"), &orderId)
	if err != nil {
		respondValidation(c, "orderId", "orderId must be an integer")
		return
	}
	if orderId <= 0 {
		respondValidation(c, "orderId", domain.ErrInvalidOrderID.Error())
		return
	}
	order, err := api.processOrder(c.Request.Context(), orderId)
	if err != nil {
		problems.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProcessOrderResponse{OrderId: order.ID})
}

func (api *OrderAPI) processOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.ProcessOrder(ctx, orderID)
	}
	return api.service.ProcessOrder(ctx, orderID)
}
