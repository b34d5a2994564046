package handler

import (
	"bytes"
	"encoding/json"
)

// rawValue accepts a JSON string, number or null and keeps its literal text
// so the core parses form and JSON submissions the same way.
type rawValue string

func (v *rawValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = rawValue(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = rawValue(n.String())
		return nil
	}
}

type createUserRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=256"`
}

type createExerciseRequest struct {
	Description string   `json:"description" form:"description" validate:"max=1024"`
	Duration    rawValue `json:"duration"    form:"duration"`
	Date        rawValue `json:"date"        form:"date"`
}

type userResponse struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

type exerciseResponse struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Date        string `json:"date"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

type logEntryResponse struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

type logResponse struct {
	ID       string             `json:"_id"`
	Username string             `json:"username"`
	From     string             `json:"from,omitempty"`
	To       string             `json:"to,omitempty"`
	Count    int                `json:"count"`
	Log      []logEntryResponse `json:"log"`
}

// errorResponse documents the structured error body for swag.
type errorResponse struct {
	Error string `json:"error"`
}
