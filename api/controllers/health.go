package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/adiwidodo/tokokita-backend/api/responses"
	"github.com/adiwidodo/tokokita-backend/pkg/config"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/logger"
)

// ReadinessCheck names a backing dependency and how to probe it.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tokokita-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, checks []ReadinessCheck, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tokokita-Env", cfg.App.Env)

		var combined error
		for _, check := range checks {
			if check.Check == nil {
				continue
			}
			if err := check.Check(r.Context()); err != nil {
				combined = multierr.Append(combined, pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.Name+" unavailable"))
			}
		}
		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
