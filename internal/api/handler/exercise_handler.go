package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry an exercise submission safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// ExerciseHandler handles exercise submissions.
type ExerciseHandler struct {
	service ports.ExerciseService
}

func NewExerciseHandler(service ports.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

// Create handles POST /api/users/:_id/exercises.
//
// @Summary      Record an exercise
// @Description  duration is a whole number of minutes. date is optional and defaults to today.
// @Tags         exercises
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        _id              path      string                 true   "User id"
// @Param        Idempotency-Key  header    string                 false  "Replay key"
// @Param        body             body      createExerciseRequest  true   "Exercise"
// @Success      200              {object}  exerciseResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/users/{_id}/exercises [post]
func (h *ExerciseHandler) Create(c echo.Context) error {
	var req createExerciseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Record(c.Request().Context(), ports.ExerciseInput{
		UserID:         c.Param("_id"),
		Description:    req.Description,
		Duration:       string(req.Duration),
		Date:           string(req.Date),
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExerciseResponse(result))
}
