// Package handler implements the JSON endpoints of the public HTTP API.
package handler

import (
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/authsys-server/internal/api/http/respond"
	"github.com/dtroode/authsys-server/internal/model"
)

// clientInfo extracts the metadata stored alongside refresh tokens.
// RemoteAddr is already rewritten by the RealIP middleware.
func clientInfo(r *http.Request) model.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return model.ClientInfo{UserAgent: r.UserAgent(), IP: ip}
}

// identity returns the caller or writes 401.
func identity(w http.ResponseWriter, r *http.Request, cm model.ContextManager) (*model.Identity, bool) {
	id, ok := cm.GetIdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, respond.DetailNotAuthenticated)
		return nil, false
	}
	return id, true
}

// pathID parses the {id} URL parameter. Non-numeric ids are not routable and yield 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusNotFound, respond.DetailNotFound)
		return 0, false
	}
	return id, true
}
