package handler

import (
	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

func toUserResponse(u ports.UserResult) userResponse {
	return userResponse{Username: u.Username, ID: u.ID}
}

func toExerciseResponse(r *ports.ExerciseResult) exerciseResponse {
	return exerciseResponse{
		ID:          r.UserID,
		Username:    r.Username,
		Date:        domain.FormatDate(r.Date),
		Duration:    r.Duration,
		Description: r.Description,
	}
}

// toLogResponse shapes a log query result. from and to are echoed only when
// both bounds were applied.
func toLogResponse(r *ports.LogResult) logResponse {
	resp := logResponse{
		ID:       r.UserID,
		Username: r.Username,
		Count:    r.Count,
		Log:      make([]logEntryResponse, 0, len(r.Log)),
	}
	if r.BoundsApplied {
		resp.From = domain.FormatDate(r.From)
		resp.To = domain.FormatDate(r.To)
	}
	for _, e := range r.Log {
		resp.Log = append(resp.Log, logEntryResponse{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        domain.FormatDate(e.Date),
		})
	}
	return resp
}
