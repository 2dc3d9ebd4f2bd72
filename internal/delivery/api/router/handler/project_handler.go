package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"carbonledger/internal/delivery/api/middleware"
	"carbonledger/internal/delivery/api/response"
	"carbonledger/internal/infra/geo"
	"carbonledger/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// ProjectHandlerParams holds dependencies for ProjectHandler, injected by Fx.
type ProjectHandlerParams struct {
	fx.In

	ProjectUC usecase.ProjectUsecase
	Logger    *slog.Logger
}

// ProjectHandler serves SDGs, public project pages and project administration.
type ProjectHandler struct {
	projectUC usecase.ProjectUsecase
	logger    *slog.Logger
}

// NewProjectHandler is the constructor for ProjectHandler.
func NewProjectHandler(params ProjectHandlerParams) *ProjectHandler {
	return &ProjectHandler{
		projectUC: params.ProjectUC,
		logger:    params.Logger,
	}
}

// ProjectRequest is the body of a project create or update.
type ProjectRequest struct {
	SDGID        int             `json:"sdg_id" validate:"required"`
	Name         string          `json:"name" validate:"required,max=255"`
	Description  string          `json:"description"`
	Location     string          `json:"location" validate:"max=255"`
	Latitude     *float64        `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64        `json:"longitude" validate:"omitempty,longitude"`
	ImageURL     string          `json:"image_url" validate:"omitempty,url"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

func (r *ProjectRequest) toInput() *usecase.ProjectInput {
	return &usecase.ProjectInput{
		SDGID:        r.SDGID,
		Name:         r.Name,
		Description:  r.Description,
		Location:     r.Location,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		ImageURL:     r.ImageURL,
		TargetAmount: r.TargetAmount,
	}
}

// ProjectUpdateRequest is the JSON body of a progress post.
type ProjectUpdateRequest struct {
	Title     string   `json:"title" validate:"required,max=255"`
	Content   string   `json:"content"`
	MediaURLs []string `json:"media_urls" validate:"dive,url"`
}

// DisplayInvestmentRequest sets the shown total of a project.
type DisplayInvestmentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// NotifyRequest is an admin message to project followers.
type NotifyRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// ListSDGs returns the 17 goals.
func (h *ProjectHandler) ListSDGs(c echo.Context) error {
	sdgs, err := h.projectUC.ListSDGs(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sdgs)
}

// ListProjects returns every project.
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.projectUC.ListProjects(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, projects)
}

// GetProject returns one project.
func (h *ProjectHandler) GetProject(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectUC.GetProject(c.Request().Context(), projectID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, project)
}

// ProjectMap returns located projects as a GeoJSON FeatureCollection, optionally inside ?bbox=minLng,minLat,maxLng,maxLat.
func (h *ProjectHandler) ProjectMap(c echo.Context) error {
	bound, err := geo.ParseBBox(c.QueryParam("bbox"))
	if err != nil {
		return response.BadRequest(c, "INVALID_BBOX", err.Error())
	}

	collection, err := h.projectUC.ProjectMap(c.Request().Context(), bound)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, collection)
}

// ProjectQRCode returns a PNG QR code of the public project page.
func (h *ProjectHandler) ProjectQRCode(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	png, err := h.projectUC.ProjectQRCode(c.Request().Context(), projectID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// CreateProject adds a project.
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project, err := h.projectUC.CreateProject(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, project)
}

// UpdateProject edits a project.
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project, err := h.projectUC.UpdateProject(c.Request().Context(), projectID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, project)
}

// DeleteProject removes a project with its investments.
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.projectUC.DeleteProject(c.Request().Context(), projectID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// PostUpdate appends a progress post. It accepts JSON or a multipart form with
// title, content, media_urls and files.
func (h *ProjectHandler) PostUpdate(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	input := &usecase.ProjectUpdateInput{}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid multipart form")
		}
		input.Title = c.FormValue("title")
		input.Content = c.FormValue("content")
		input.MediaURLs = form.Value["media_urls"]

		for _, header := range form.File["files"] {
			upload, file, err := openUpload(header)
			if err != nil {
				return errors.WithStack(err)
			}
			defer file.Close()
			input.Files = append(input.Files, upload)
		}
	} else {
		var req ProjectUpdateRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		input.Title = req.Title
		input.Content = req.Content
		input.MediaURLs = req.MediaURLs
	}

	update, err := h.projectUC.PostUpdate(c.Request().Context(), projectID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, update)
}

// SetDisplayInvestment overrides the shown total of a project.
func (h *ProjectHandler) SetDisplayInvestment(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req DisplayInvestmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	display, err := h.projectUC.SetDisplayInvestment(c.Request().Context(), projectID, req.Amount, adminID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, display)
}

// ClearDisplayInvestment removes the shown total override.
func (h *ProjectHandler) ClearDisplayInvestment(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.projectUC.ClearDisplayInvestment(c.Request().Context(), projectID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// NotifyFollowers sends an admin message about a project.
func (h *ProjectHandler) NotifyFollowers(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req NotifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.projectUC.NotifyFollowers(c.Request().Context(), projectID, req.Message); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusAccepted, map[string]string{"status": "queued"})
}
