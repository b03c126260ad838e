package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"gorm.io/gorm"

	"github.com/routeops/delay-monitor/internal/activities"
	"github.com/routeops/delay-monitor/internal/models"
	"github.com/routeops/delay-monitor/internal/workflows"
)

// MonitorDefaults carries the configured defaults applied when a start
// request omits them.
type MonitorDefaults struct {
	ThresholdMinutes int
	RetryAttempts    int
	FallbackTemplate string
}

type MonitorHandler struct {
	db             *gorm.DB
	temporalClient client.Client
	taskQueue      string
	defaults       MonitorDefaults
}

func NewMonitorHandler(db *gorm.DB, temporalClient client.Client, taskQueue string, defaults MonitorDefaults) *MonitorHandler {
	return &MonitorHandler{
		db:             db,
		temporalClient: temporalClient,
		taskQueue:      taskQueue,
		defaults:       defaults,
	}
}

type StartMonitorRequest struct {
	// Either an inline route or the route_id of a registered route.
	Route                 *activities.DeliveryRoute `json:"route,omitempty"`
	RouteID               string                    `json:"route_id,omitempty"`
	Customer              activities.CustomerInfo   `json:"customer"`
	DelayThresholdMinutes int                       `json:"delay_threshold_minutes,omitempty"`
	FallbackMessage       string                    `json:"fallback_message,omitempty"`
}

func (h *MonitorHandler) Start(c echo.Context) error {
	var req StartMonitorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	route, err := h.resolveRoute(c, req)
	if err != nil {
		return err
	}

	if err := activities.ValidateRoute(route); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := activities.ValidateCustomer(req.Customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cfg := activities.WorkflowConfig{
		DelayThresholdMinutes: req.DelayThresholdMinutes,
		RetryAttempts:         h.defaults.RetryAttempts,
		FallbackMessage:       req.FallbackMessage,
	}
	if cfg.DelayThresholdMinutes == 0 {
		cfg.DelayThresholdMinutes = h.defaults.ThresholdMinutes
	}
	if cfg.FallbackMessage == "" {
		cfg.FallbackMessage = h.defaults.FallbackTemplate
	}
	if err := activities.ValidateConfig(cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	run := models.MonitorRun{
		RouteID:          route.RouteID,
		CustomerID:       req.Customer.CustomerID,
		CustomerEmail:    req.Customer.CustomerEmail,
		ThresholdMinutes: cfg.DelayThresholdMinutes,
		Status:           models.MonitorStatusPending,
	}
	if err := h.db.WithContext(c.Request().Context()).Create(&run).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create monitor run")
	}

	workflowID := fmt.Sprintf("delay-monitor-%s", run.ID.String())
	workflowOptions := client.StartWorkflowOptions{
		ID:                       workflowID,
		TaskQueue:                h.taskQueue,
		WorkflowExecutionTimeout: workflows.ExecutionTimeout,
		WorkflowRunTimeout:       workflows.RunTimeout,
	}

	input := workflows.MonitorInput{
		Route:    route,
		Customer: req.Customer,
		Config:   cfg,
	}

	if _, err := h.temporalClient.ExecuteWorkflow(c.Request().Context(), workflowOptions, workflows.DelayMonitorWorkflow, input); err != nil {
		run.Status = models.MonitorStatusFailed
		run.ErrorMessage = "failed to start workflow"
		h.db.WithContext(c.Request().Context()).Save(&run)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start workflow: "+err.Error())
	}

	run.WorkflowID = workflowID
	run.Status = models.MonitorStatusRunning
	h.db.WithContext(c.Request().Context()).Save(&run)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"monitor":     run,
		"workflow_id": workflowID,
	})
}

func (h *MonitorHandler) resolveRoute(c echo.Context, req StartMonitorRequest) (activities.DeliveryRoute, error) {
	if req.Route != nil {
		return *req.Route, nil
	}
	if req.RouteID == "" {
		return activities.DeliveryRoute{}, echo.NewHTTPError(http.StatusBadRequest, "route or route_id is required")
	}

	var stored models.Route
	if err := h.db.WithContext(c.Request().Context()).Where("route_id = ?", req.RouteID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return activities.DeliveryRoute{}, echo.NewHTTPError(http.StatusNotFound, "route not found")
		}
		return activities.DeliveryRoute{}, echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch route")
	}

	return activities.DeliveryRoute{
		RouteID:             stored.RouteID,
		Origin:              stored.Origin,
		Destination:         stored.Destination,
		BaselineTimeMinutes: stored.BaselineTimeMinutes,
	}, nil
}

func (h *MonitorHandler) Get(c echo.Context) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}

	status := "UNKNOWN"
	if run.WorkflowID != "" {
		desc, derr := h.temporalClient.DescribeWorkflowExecution(c.Request().Context(), run.WorkflowID, "")
		if derr == nil {
			status = executionStatus(desc.WorkflowExecutionInfo.GetStatus())
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"monitor":          run,
		"execution_status": status,
	})
}

// Result blocks until the workflow reaches a terminal state, bounded by
// the request context.
func (h *MonitorHandler) Result(c echo.Context) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}
	if run.WorkflowID == "" {
		return echo.NewHTTPError(http.StatusConflict, "monitor has no workflow execution")
	}

	var result workflows.MonitorResult
	if err := h.temporalClient.GetWorkflow(c.Request().Context(), run.WorkflowID, "").Get(c.Request().Context(), &result); err != nil {
		run.Status = models.MonitorStatusFailed
		run.ErrorMessage = err.Error()
		h.db.WithContext(c.Request().Context()).Save(run)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"monitor": run,
			"failure": err.Error(),
		})
	}

	run.Status = models.MonitorStatusCompleted
	run.DelayDetected = result.DelayDetected
	run.DelayMinutes = result.DelayMinutes
	run.NotificationSent = result.NotificationSent
	run.ErrorMessage = result.ErrorMessage
	h.db.WithContext(c.Request().Context()).Save(run)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"monitor": run,
		"result":  result,
	})
}

func (h *MonitorHandler) Cancel(c echo.Context) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}
	if run.WorkflowID == "" {
		return echo.NewHTTPError(http.StatusConflict, "monitor has no workflow execution")
	}

	if err := h.temporalClient.CancelWorkflow(c.Request().Context(), run.WorkflowID, ""); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to cancel workflow: "+err.Error())
	}

	run.Status = models.MonitorStatusCancelled
	h.db.WithContext(c.Request().Context()).Save(run)
	return c.JSON(http.StatusOK, map[string]interface{}{"monitor": run})
}

func (h *MonitorHandler) Terminate(c echo.Context) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}
	if run.WorkflowID == "" {
		return echo.NewHTTPError(http.StatusConflict, "monitor has no workflow execution")
	}

	if err := h.temporalClient.TerminateWorkflow(c.Request().Context(), run.WorkflowID, "", "terminated via API"); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to terminate workflow: "+err.Error())
	}

	run.Status = models.MonitorStatusTerminated
	h.db.WithContext(c.Request().Context()).Save(run)
	return c.JSON(http.StatusOK, map[string]interface{}{"monitor": run})
}

func (h *MonitorHandler) List(c echo.Context) error {
	var runs []models.MonitorRun
	if err := h.db.WithContext(c.Request().Context()).Order("created_at desc").Find(&runs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch monitor runs")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"monitors": runs})
}

func (h *MonitorHandler) findRun(c echo.Context) (*models.MonitorRun, error) {
	id := c.Param("id")
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid monitor id")
	}

	var run models.MonitorRun
	if err := h.db.WithContext(c.Request().Context()).Where("id = ?", parsedID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "monitor not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch monitor")
	}
	return &run, nil
}

func executionStatus(s enumspb.WorkflowExecutionStatus) string {
	switch s {
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING, enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW:
		return "RUNNING"
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		return "COMPLETED"
	case enumspb.WORKFLOW_EXECUTION_STATUS_FAILED:
		return "FAILED"
	case enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED:
		return "CANCELLED"
	case enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED:
		return "TERMINATED"
	case enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}
