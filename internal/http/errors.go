// internal/http/errors.go
package httpserver

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/workorder"
)

// DomainError maps domain and storage errors to an HTTP status + message.
// Unknown errors fall through to 500 with the provided fallback so internals
// never leak to clients.
func DomainError(err error, fallback string) (int, string) {
	var terr *workorder.TransitionError
	if errors.As(err, &terr) {
		switch terr.Kind {
		case workorder.KindClosed:
			return http.StatusConflict, "work order is already closed"
		case workorder.KindBackward:
			return http.StatusConflict, "work order is already past this state"
		case workorder.KindMissingField:
			return http.StatusUnprocessableEntity, terr.Error()
		default:
			return http.StatusUnprocessableEntity, terr.Error()
		}
	}

	switch {
	case errors.Is(err, models.ErrWorkOrderNotFound),
		errors.Is(err, models.ErrHallNotFound),
		errors.Is(err, models.ErrAssetNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, workorder.ErrNoEligible):
		return http.StatusConflict, "no eligible work orders to update"
	case errors.Is(err, workorder.ErrNotRoutine):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, workorder.ErrInvalidValue):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrDuplicateID):
		return http.StatusConflict, "duplicate id"
	}

	return pgError(err, fallback)
}

// pgError maps common Postgres errors to user-friendly HTTP status + message.
func pgError(err error, fallback string) (int, string) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Unknown error type; hide details
		return http.StatusInternalServerError, fallback
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		if pgErr.ConstraintName == "halls_name_uniq" {
			return http.StatusConflict, "A hall with this name already exists."
		}
		return http.StatusConflict, "Duplicate value violates a unique constraint."
	case "23503": // foreign_key_violation
		return http.StatusBadRequest, "Referenced record not found."
	case "23514": // check_violation
		switch pgErr.ConstraintName {
		case "work_orders_status_check":
			return http.StatusBadRequest, "Unknown work-order status."
		case "work_orders_type_check":
			return http.StatusBadRequest, "Unknown work-order type."
		case "work_orders_urgency_check":
			return http.StatusBadRequest, "Unknown urgency level."
		case "work_orders_method_check":
			return http.StatusBadRequest, "Unknown processing method."
		case "assets_kind_check":
			return http.StatusBadRequest, "Unknown asset kind."
		}
		return http.StatusBadRequest, "Value violates a check constraint."
	case "23502": // not_null_violation
		return http.StatusBadRequest, "Missing required field."
	case "22P02": // invalid_text_representation (e.g., UUID/boolean/date)
		return http.StatusBadRequest, "Invalid value format."
	case "22007": // invalid_datetime_format
		return http.StatusBadRequest, "Invalid date/time format."
	case "22001": // string_data_right_truncation
		return http.StatusBadRequest, "Value is too long."
	case "22003": // numeric_value_out_of_range
		return http.StatusBadRequest, "Numeric value out of range."
	default:
		return http.StatusBadRequest, fallback
	}
}
