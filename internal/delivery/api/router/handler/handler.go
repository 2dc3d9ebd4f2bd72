// Package handler contains the HTTP handlers of the API server.
package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"carbonledger/internal/delivery/api/response"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const maxPageSize = 200

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}

	return id, nil
}

// bindAndValidate binds the request into req and checks its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	return errors.WithStack(c.Validate(req))
}

// pagination reads limit and offset query parameters. Missing values mean no limit.
func pagination(c echo.Context) (limit, offset int, err error) {
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		limit = min(limit, maxPageSize)
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid offset parameter")
		}
	}

	return limit, offset, nil
}

// openUpload opens a multipart file. The caller closes the returned file.
func openUpload(header *multipart.FileHeader) (*usecase.FileUpload, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open uploaded file")
	}

	return &usecase.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Content:     file,
	}, file, nil
}
