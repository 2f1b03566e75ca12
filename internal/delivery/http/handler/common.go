package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"car-rental-admin/internal/delivery/http/middleware"
	"car-rental-admin/internal/usecase"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

func callerFromRequest(r *http.Request) (usecase.Caller, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Caller{}, false
	}
	roleID, ok := middleware.GetRoleIDFromContext(r.Context())
	if !ok {
		return usecase.Caller{}, false
	}
	return usecase.Caller{UserID: userID, RoleID: roleID}, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}
