package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pzfresh/pzfresh-backend/api/middleware"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
)

func actorUUID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ActorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "malformed actor id")
	}
	return id, nil
}
