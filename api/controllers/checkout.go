package controllers

import (
	"net/http"

	"github.com/adiwidodo/tokokita-backend/api/responses"
	"github.com/adiwidodo/tokokita-backend/api/validators"
	checkoutsvc "github.com/adiwidodo/tokokita-backend/internal/checkout"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/logger"
)

// Checkout handles submission of the caller's cart as an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutsvc.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Execute(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
