package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orggatekeeper/internal/gatekeeper"
	"github.com/iota-uz/orggatekeeper/pkg/eventbus"
)

// TriggerController exposes manual re-evaluation endpoints. Each accepted
// request publishes UnitTriggered events; reconciliation itself happens
// asynchronously in the bus subscriber.
type TriggerController struct {
	bus     eventbus.EventBus
	querier gatekeeper.Querier
	logger  *logrus.Logger
}

func NewTriggerController(bus eventbus.EventBus, querier gatekeeper.Querier, logger *logrus.Logger) *TriggerController {
	return &TriggerController{bus: bus, querier: querier, logger: logger}
}

func (c *TriggerController) Key() string {
	return "/trigger"
}

func (c *TriggerController) Register(r *mux.Router) {
	r.HandleFunc("/trigger/all", c.triggerAll).Methods(http.MethodPost)
	r.HandleFunc("/trigger/{uuid}", c.triggerOne).Methods(http.MethodPost)
}

func (c *TriggerController) triggerOne(w http.ResponseWriter, r *http.Request) {
	unit, err := uuid.Parse(mux.Vars(r)["uuid"])
	if err != nil {
		http.Error(w, "invalid organisation unit uuid", http.StatusBadRequest)
		return
	}

	c.bus.Publish(&gatekeeper.UnitTriggered{UUID: unit})
	c.logger.WithField("unit", unit).Info("Reconciliation triggered")

	writeAccepted(w, map[string]interface{}{"status": "triggered", "unit": unit.String()})
}

func (c *TriggerController) triggerAll(w http.ResponseWriter, r *http.Request) {
	uuids, err := c.querier.AllUnitUUIDs(r.Context())
	if err != nil {
		c.logger.WithError(err).Error("Failed to list organisation units")
		http.Error(w, "failed to list organisation units", http.StatusInternalServerError)
		return
	}

	for _, unit := range uuids {
		c.bus.Publish(&gatekeeper.UnitTriggered{UUID: unit})
	}
	c.logger.WithField("count", len(uuids)).Info("Bulk reconciliation triggered")

	writeAccepted(w, map[string]interface{}{"status": "triggered", "count": len(uuids)})
}

func writeAccepted(w http.ResponseWriter, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(body)
}
