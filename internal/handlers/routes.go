package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/routeops/delay-monitor/internal/activities"
	"github.com/routeops/delay-monitor/internal/models"
)

type RouteHandler struct {
	db *gorm.DB
}

func NewRouteHandler(db *gorm.DB) *RouteHandler {
	return &RouteHandler{db: db}
}

type CreateRouteRequest struct {
	RouteID             string `json:"route_id"`
	Origin              string `json:"origin"`
	Destination         string `json:"destination"`
	BaselineTimeMinutes int    `json:"baseline_time_minutes"`
}

func (h *RouteHandler) Create(c echo.Context) error {
	var req CreateRouteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	route := activities.DeliveryRoute{
		RouteID:             req.RouteID,
		Origin:              req.Origin,
		Destination:         req.Destination,
		BaselineTimeMinutes: req.BaselineTimeMinutes,
	}
	if err := activities.ValidateRoute(route); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record := models.Route{
		RouteID:             req.RouteID,
		Origin:              req.Origin,
		Destination:         req.Destination,
		BaselineTimeMinutes: req.BaselineTimeMinutes,
	}
	if err := h.db.WithContext(c.Request().Context()).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "route already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create route")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"route": record})
}

func (h *RouteHandler) List(c echo.Context) error {
	var routes []models.Route
	if err := h.db.WithContext(c.Request().Context()).Find(&routes).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch routes")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"routes": routes})
}

func (h *RouteHandler) Get(c echo.Context) error {
	id := c.Param("id")
	var route models.Route

	query := h.db.WithContext(c.Request().Context())
	if parsedID, err := uuid.Parse(id); err == nil {
		query = query.Where("id = ?", parsedID)
	} else {
		query = query.Where("route_id = ?", id)
	}

	if err := query.First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "route not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch route")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"route": route})
}
