package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type HealthController struct {
	commitTag string
	commitSHA string
}

func NewHealthController(commitTag, commitSHA string) *HealthController {
	return &HealthController{commitTag: commitTag, commitSHA: commitSHA}
}

func (c *HealthController) Key() string {
	return "/health"
}

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.health).Methods(http.MethodGet)
}

func (c *HealthController) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":     "ok",
		"commit_tag": c.commitTag,
		"commit_sha": c.commitSHA,
	})
}
