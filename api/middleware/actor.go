package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pzfresh/pzfresh-backend/api/responses"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
	"github.com/pzfresh/pzfresh-backend/pkg/logger"
)

const actorIDHeader = "X-Actor-Id"

// ActorContext requires an X-Actor-Id header carrying the caller's user id
// and seeds the request context with it. Authentication mechanics live in
// front of this service; the id arrives as an opaque trusted value, but it
// must at least be a well-formed UUID.
func ActorContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(actorIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor id"))
				return
			}

			actorID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "malformed actor id"))
				return
			}

			ctx := WithActorID(r.Context(), actorID.String())
			if logg != nil {
				ctx = logg.WithActorID(ctx, actorID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
