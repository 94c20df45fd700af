package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Error codes of ErrorResponse.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeBadRequest         = "BAD_REQUEST"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_SERVER_ERROR"
)

type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type PackageRequest struct {
	Description           string `json:"description"`
	Sender                string `json:"sender"`
	Recipient             string `json:"recipient"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
}

type PackageResponse struct {
	ID                    string     `json:"id"`
	Description           string     `json:"description"`
	Sender                string     `json:"sender"`
	Recipient             string     `json:"recipient"`
	Status                string     `json:"status"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
	DeliveredAt           *time.Time `json:"deliveredAt"`
	EstimatedDeliveryDate string     `json:"estimatedDeliveryDate"`
	IsHoliday             bool       `json:"isHoliday"`
	FunFact               string     `json:"funFact"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	PackageID   string    `json:"packageId"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"dateTime"`
}

// PackageDetailResponse carries a nil Events slice when events were not requested.
type PackageDetailResponse struct {
	PackageResponse
	Events []EventResponse `json:"events"`
}

type TrackingEventRequest struct {
	PackageID   string `json:"packageId"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type ListPackagesParams struct {
	Sender    *string `form:"sender,omitempty" json:"sender,omitempty"`
	Recipient *string `form:"recipient,omitempty" json:"recipient,omitempty"`
}

type GetPackageParams struct {
	IncludeEvents *bool `form:"includeEvents,omitempty" json:"includeEvents,omitempty"`
}

type UpdatePackageStatusParams struct {
	Status string `form:"status" json:"status"`
}

// ServerInterface lists the operations of the REST API.
type ServerInterface interface {
	// (GET /api/packages)
	ListPackages(ctx echo.Context, params ListPackagesParams) error
	// (POST /api/packages)
	CreatePackage(ctx echo.Context) error
	// (GET /api/packages/{id})
	GetPackage(ctx echo.Context, id string, params GetPackageParams) error
	// (PUT /api/packages/{id}/status)
	UpdatePackageStatus(ctx echo.Context, id string, params UpdatePackageStatusParams) error
	// (PUT /api/packages/{id}/cancel)
	CancelPackage(ctx echo.Context, id string) error
	// (POST /api/tracking-events)
	CreateTrackingEvent(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) ListPackages(ctx echo.Context) error {
	var params ListPackagesParams

	if err := runtime.BindQueryParameter("form", true, false, "sender", ctx.QueryParams(), &params.Sender); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter sender: "+err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "recipient", ctx.QueryParams(), &params.Recipient); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter recipient: "+err.Error())
	}

	return w.Handler.ListPackages(ctx, params)
}

func (w *ServerInterfaceWrapper) CreatePackage(ctx echo.Context) error {
	return w.Handler.CreatePackage(ctx)
}

func (w *ServerInterfaceWrapper) GetPackage(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}

	var params GetPackageParams
	if err = runtime.BindQueryParameter("form", true, false, "includeEvents", ctx.QueryParams(), &params.IncludeEvents); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter includeEvents: "+err.Error())
	}

	return w.Handler.GetPackage(ctx, id, params)
}

func (w *ServerInterfaceWrapper) UpdatePackageStatus(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}

	var params UpdatePackageStatusParams
	if err = runtime.BindQueryParameter("form", true, true, "status", ctx.QueryParams(), &params.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter status: "+err.Error())
	}

	return w.Handler.UpdatePackageStatus(ctx, id, params)
}

func (w *ServerInterfaceWrapper) CancelPackage(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CancelPackage(ctx, id)
}

func (w *ServerInterfaceWrapper) CreateTrackingEvent(ctx echo.Context) error {
	return w.Handler.CreateTrackingEvent(ctx)
}

func bindID(ctx echo.Context) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter id: "+err.Error())
	}
	return id, nil
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts the API operations under baseURL.
func RegisterHandlers(router EchoRouter, si ServerInterface, baseURL string) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/api/packages", w.ListPackages)
	router.POST(baseURL+"/api/packages", w.CreatePackage)
	router.GET(baseURL+"/api/packages/:id", w.GetPackage)
	router.PUT(baseURL+"/api/packages/:id/status", w.UpdatePackageStatus)
	router.PUT(baseURL+"/api/packages/:id/cancel", w.CancelPackage)
	router.POST(baseURL+"/api/tracking-events", w.CreateTrackingEvent)
}
