package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/application"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-order-processor/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-order-processor/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// workflowRunner is the part of client.Client the orchestrator needs.
type workflowRunner interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	GetWorkflow(ctx context.Context, workflowID string, runID string) client.WorkflowRun
}

// TemporalOrderWorkflows runs order processing as a Temporal workflow and waits for its result.
type TemporalOrderWorkflows struct {
	client    workflowRunner
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.ProcessingTaskQueue}
}

func (o *TemporalOrderWorkflows) ProcessOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	if orderID <= 0 {
		return nil, &application.ValidationError{OrderID: orderID}
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        workflowID(ctx, orderID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.ProcessingWorkflowName,
		orderworkflows.ProcessingWorkflowInput{OrderID: orderID, TraceID: traceComponent},
	)
	if err != nil {
		// only a resubmitted start for the same request span collides; it joins that run
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, fromWorkflowError(orderID, err)
	}
	return &order, nil
}

// fromWorkflowError turns application errors raised by the activity back into domain errors.
func fromWorkflowError(orderID int64, err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrTypeInvalidOrderID:
		return &application.ValidationError{OrderID: orderID}
	case orderactivities.ErrTypeOrderNotFound:
		return &application.OrderNotFoundError{OrderID: orderID}
	case orderactivities.ErrTypeNoHandler:
		var details orderactivities.NoHandlerDetails
		if appErr.HasDetails() {
			_ = appErr.Details(&details)
		}
		return &application.NoHandlerError{ProductID: details.ProductID, Type: details.Type}
	default:
		return err
	}
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) ProcessOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.ProcessOrder(ctx, orderID)
}

// workflowID is unique per request: two requests for one order sharing a
// caller trace still start separate runs, as they would inline.
func workflowID(ctx context.Context, orderID int64, traceComponent string) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return fmt.Sprintf("order-processing-%d-%s", orderID, traceComponent)
	}
	return fmt.Sprintf("order-processing-%d-%s-%s", orderID, traceComponent, spanCtx.SpanID())
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
