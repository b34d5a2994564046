package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

// LogHandler serves a user's exercise log.
type LogHandler struct {
	service ports.LogService
}

func NewLogHandler(service ports.LogService) *LogHandler {
	return &LogHandler{service: service}
}

// Get handles GET /api/users/:_id/logs.
// Unparseable from, to or limit values are ignored rather than rejected.
//
// @Summary      Get a user's exercise log
// @Description  Entries are sorted newest first. from and to filter inclusively and are echoed only when both parse.
// @Tags         exercises
// @Produce      json
// @Param        _id    path      string  true   "User id"
// @Param        from   query     string  false  "Lower date bound (yyyy-mm-dd)"
// @Param        to     query     string  false  "Upper date bound (yyyy-mm-dd)"
// @Param        limit  query     int     false  "Maximum number of entries"
// @Success      200    {object}  logResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/users/{_id}/logs [get]
func (h *LogHandler) Get(c echo.Context) error {
	result, err := h.service.Query(c.Request().Context(), ports.LogQueryInput{
		UserID: c.Param("_id"),
		From:   c.QueryParam("from"),
		To:     c.QueryParam("to"),
		Limit:  c.QueryParam("limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLogResponse(result))
}
