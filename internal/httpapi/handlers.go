package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/hanabi-table/internal/table"
	"github.com/DoyleJ11/hanabi-table/internal/types"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func GetState(t *table.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := t.View(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, types.NewError(err))
			return
		}
		writeJSON(w, http.StatusOK, types.FromView(v))
	}
}

// SelectAction only hands the key to the table. Whether it is accepted shows
// up in the next view.
func SelectAction(t *table.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if err := t.Select(r.Context(), key); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, types.NewError(err))
			return
		}
		writeJSON(w, http.StatusAccepted, struct {
			Key string `json:"key"`
		}{Key: key})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
