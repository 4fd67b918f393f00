// Package rest serves the read-only JSON endpoints next to the Connect API.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
)

// NewRouter builds the REST router:
//
//	GET /healthz                          liveness, no auth
//	GET /api/groups/{groupID}/balances    balances and settle-up plan, bearer auth
func NewRouter(balances *service.BalanceQuery, jwtManager *auth.JWTManager) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	s := r.PathPrefix("/api").Subrouter()
	s.Use(middleware.RequireBearer(jwtManager))
	s.Handle("/groups/{groupID}/balances", groupBalances(balances)).Methods(http.MethodGet)

	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func groupBalances(balances *service.BalanceQuery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := mux.Vars(r)["groupID"]
		userID := middleware.GetUserID(r.Context())

		resp, err := balances.Get(r.Context(), groupID, userID)
		if err != nil {
			status := httpStatus(service.CodeOf(err))
			if status >= http.StatusInternalServerError {
				slog.Error("Group balances failed", "group_id", groupID, "error", err)
				respondWithError(w, status, "internal error")
				return
			}
			respondWithError(w, status, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, resp)
	}
}

func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized
	case connect.CodePermissionDenied:
		return http.StatusForbidden
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
