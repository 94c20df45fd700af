package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Source labels events accepted over HTTP.
const Source = "http"

type (
	PackageCreator interface {
		Handle(ctx context.Context, cmd commands.CreatePackageCommand) (*shipment.Package, error)
	}

	PackageStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdatePackageStatusCommand) (*shipment.Package, error)
	}

	PackageCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelPackageCommand) (*shipment.Package, error)
	}

	PackageDetailsReader interface {
		Handle(ctx context.Context, query queries.GetPackageDetailsQuery) (queries.GetPackageDetailsQueryResponse, error)
	}

	PackageLister interface {
		Handle(ctx context.Context, query queries.ListPackagesQuery) ([]queries.PackageResponse, error)
	}

	// EventSubmitter queues a tracking event without waiting for it to be recorded.
	EventSubmitter interface {
		Submit(cmd commands.RecordTrackingEventCommand, source string) error
	}
)

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	createPackageHandler PackageCreator
	updateStatusHandler  PackageStatusUpdater
	cancelPackageHandler PackageCanceller
	detailsHandler       PackageDetailsReader
	listHandler          PackageLister
	events               EventSubmitter
	logger               *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

func NewServer(
	createPackageHandler PackageCreator,
	updateStatusHandler PackageStatusUpdater,
	cancelPackageHandler PackageCanceller,
	detailsHandler PackageDetailsReader,
	listHandler PackageLister,
	events EventSubmitter,
	logger *slog.Logger,
) *Server {
	return &Server{
		createPackageHandler: createPackageHandler,
		updateStatusHandler:  updateStatusHandler,
		cancelPackageHandler: cancelPackageHandler,
		detailsHandler:       detailsHandler,
		listHandler:          listHandler,
		events:               events,
		logger:               logger.With("component", "http_server"),
	}
}

// CreatePackage handles POST /api/packages.
func (s *Server) CreatePackage(ctx echo.Context) error {
	var req PackageRequest
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	date, err := parseDate(req.EstimatedDeliveryDate)
	if err != nil {
		return s.fail(ctx, "create_package", "", err)
	}

	cmd, err := commands.NewCreatePackageCommand(kernel.NewUUID(), req.Description, req.Sender, req.Recipient, date)
	if err != nil {
		return s.fail(ctx, "create_package", "", err)
	}

	p, err := s.createPackageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "create_package", cmd.PackageID().String(), err)
	}

	ctx.Response().Header().Set(echo.HeaderLocation, "/api/packages/"+p.ID().String())
	return ctx.JSON(http.StatusCreated, packageFromAggregate(p))
}

// UpdatePackageStatus handles PUT /api/packages/{id}/status.
func (s *Server) UpdatePackageStatus(ctx echo.Context, id string, params UpdatePackageStatusParams) error {
	packageID, err := kernel.UUIDFromString(id)
	if err != nil {
		return s.fail(ctx, "update_status", id, err)
	}

	status, err := shipment.ParseStatus(params.Status)
	if err != nil {
		return s.fail(ctx, "update_status", id, err)
	}

	cmd, err := commands.NewUpdatePackageStatusCommand(packageID, status)
	if err != nil {
		return s.fail(ctx, "update_status", id, err)
	}

	p, err := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "update_status", id, err)
	}

	return ctx.JSON(http.StatusOK, packageFromAggregate(p))
}

// CancelPackage handles PUT /api/packages/{id}/cancel.
func (s *Server) CancelPackage(ctx echo.Context, id string) error {
	packageID, err := kernel.UUIDFromString(id)
	if err != nil {
		return s.fail(ctx, "cancel_package", id, err)
	}

	cmd, err := commands.NewCancelPackageCommand(packageID)
	if err != nil {
		return s.fail(ctx, "cancel_package", id, err)
	}

	p, err := s.cancelPackageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "cancel_package", id, err)
	}

	return ctx.JSON(http.StatusOK, packageFromAggregate(p))
}

// GetPackage handles GET /api/packages/{id}. Events are included unless includeEvents=false.
func (s *Server) GetPackage(ctx echo.Context, id string, params GetPackageParams) error {
	packageID, err := kernel.UUIDFromString(id)
	if err != nil {
		return s.fail(ctx, "get_package", id, err)
	}

	includeEvents := true
	if params.IncludeEvents != nil {
		includeEvents = *params.IncludeEvents
	}

	query, err := queries.NewGetPackageDetailsQuery(packageID, includeEvents)
	if err != nil {
		return s.fail(ctx, "get_package", id, err)
	}

	details, err := s.detailsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "get_package", id, err)
	}

	response := PackageDetailResponse{PackageResponse: packageFromReadModel(details.PackageResponse)}
	if details.Events != nil {
		response.Events = make([]EventResponse, 0, len(details.Events))
		for _, e := range details.Events {
			response.Events = append(response.Events, EventResponse{
				ID:          e.ID.String(),
				PackageID:   e.PackageID.String(),
				Location:    e.Location,
				Description: e.Description,
				DateTime:    e.Timestamp,
			})
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ListPackages handles GET /api/packages.
func (s *Server) ListPackages(ctx echo.Context, params ListPackagesParams) error {
	query := queries.NewListPackagesQuery(deref(params.Sender), deref(params.Recipient))

	packages, err := s.listHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "list_packages", "", err)
	}

	response := make([]PackageResponse, 0, len(packages))
	for _, p := range packages {
		response = append(response, packageFromReadModel(p))
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateTrackingEvent handles POST /api/tracking-events. The event is only
// validated and queued here; 202 does not mean it was recorded.
func (s *Server) CreateTrackingEvent(ctx echo.Context) error {
	var req TrackingEventRequest
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	packageID, err := kernel.UUIDFromString(req.PackageID)
	if err != nil {
		return s.fail(ctx, "record_event", req.PackageID, err)
	}

	timestamp, err := commands.ParseTimestamp("date", req.Date)
	if err != nil {
		return s.fail(ctx, "record_event", req.PackageID, err)
	}

	cmd, err := commands.NewRecordTrackingEventCommand(packageID, kernel.NewUUID(), req.Location, req.Description, timestamp)
	if err != nil {
		return s.fail(ctx, "record_event", req.PackageID, err)
	}

	if err = s.events.Submit(cmd, Source); err != nil {
		return s.fail(ctx, "record_event", req.PackageID, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

func packageFromAggregate(p *shipment.Package) PackageResponse {
	return PackageResponse{
		ID:                    p.ID().String(),
		Description:           p.Description(),
		Sender:                p.Sender(),
		Recipient:             p.Recipient(),
		Status:                p.Status().String(),
		CreatedAt:             p.CreatedAt(),
		UpdatedAt:             p.UpdatedAt(),
		DeliveredAt:           p.DeliveredAt(),
		EstimatedDeliveryDate: p.EstimatedDeliveryDate().Format(time.DateOnly),
		IsHoliday:             p.IsHoliday(),
		FunFact:               p.FunFact(),
	}
}

func packageFromReadModel(p queries.PackageResponse) PackageResponse {
	return PackageResponse{
		ID:                    p.ID.String(),
		Description:           p.Description,
		Sender:                p.Sender,
		Recipient:             p.Recipient,
		Status:                p.Status.String(),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
		DeliveredAt:           p.DeliveredAt,
		EstimatedDeliveryDate: p.EstimatedDeliveryDate.Format(time.DateOnly),
		IsHoliday:             p.IsHoliday,
		FunFact:               p.FunFact,
	}
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errs.NewValueIsRequiredError("estimatedDeliveryDate")
	}
	date, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("estimatedDeliveryDate", err)
	}
	return date, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
