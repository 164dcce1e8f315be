// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := NotFoundError("Cannot find the word.")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should wrap ErrNotFound")
	}
	if err.Status != http.StatusNotFound {
		t.Errorf("Status = %d", err.Status)
	}
}

func TestConflictMapsToBadRequest(t *testing.T) {
	err := ConflictError("A tag with that `name` already exists.")

	if err.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if !errors.Is(err, ErrDuplicateKey) {
		t.Error("ConflictError should wrap ErrDuplicateKey")
	}
}

func TestJSONErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, BadRequestError("The field `spelling` is mandatory."))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}

	if envelope.Error.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", envelope.Error.Code)
	}
	if envelope.Error.Message != "The field `spelling` is mandatory." {
		t.Errorf("message = %q", envelope.Error.Message)
	}
}

func TestJSONErrorHidesInternalCauses(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}

	if envelope.Error.Message != "Something went wrong." {
		t.Errorf("message = %q leaks internals", envelope.Error.Message)
	}
}

func TestFormatValidationError(t *testing.T) {
	type request struct {
		Spelling string `validate:"required"`
		Meaning  string `validate:"required"`
		Level    int    `validate:"required"`
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	tests := []struct {
		name string
		req  request
		want string
	}{
		{
			"all missing reports the first declared field",
			request{},
			"The field `spelling` is mandatory.",
		},
		{
			"later field reported once earlier ones pass",
			request{Spelling: "a", Meaning: "b"},
			"The field `level` is mandatory.",
		},
		{
			"zero level counts as missing",
			request{Spelling: "a", Meaning: "b", Level: 0},
			"The field `level` is mandatory.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			if err == nil {
				t.Fatal("expected a validation error")
			}

			if got := FormatValidationError(err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatValidationErrorNonValidator(t *testing.T) {
	got := FormatValidationError(errors.New("boom"))
	if got != "Invalid request body." {
		t.Errorf("got %q", got)
	}
}
