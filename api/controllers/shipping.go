package controllers

import (
	"net/http"

	"github.com/adiwidodo/tokokita-backend/api/responses"
	shippingsvc "github.com/adiwidodo/tokokita-backend/internal/shipping"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/logger"
)

// ListShippingServices handles the courier rate listing shown at checkout.
func ListShippingServices(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"services": svc.ListServices()})
	}
}
