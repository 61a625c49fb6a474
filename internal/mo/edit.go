package mo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orggatekeeper/internal/gatekeeper"
)

const editPath = "/service/details/edit"

type objectRef struct {
	UUID string `json:"uuid"`
}

type validityPayload struct {
	From string  `json:"from"`
	To   *string `json:"to"`
}

type orgUnitData struct {
	UUID    string     `json:"uuid"`
	UserKey string     `json:"user_key"`
	Name    string     `json:"name"`
	Parent  *objectRef `json:"parent,omitempty"`
	// Always serialized: null clears the hierarchy class on the platform.
	OrgUnitHierarchy *objectRef      `json:"org_unit_hierarchy"`
	OrgUnitType      *objectRef      `json:"org_unit_type,omitempty"`
	OrgUnitLevel     *objectRef      `json:"org_unit_level,omitempty"`
	Validity         validityPayload `json:"validity"`
}

type editRequest struct {
	Type string      `json:"type"`
	UUID string      `json:"uuid"`
	Data orgUnitData `json:"data"`
}

// EditOrgUnit submits a single-record edit to the platform. The payload
// carries the full attribute set; the platform applies it as one edit.
func (c *Client) EditOrgUnit(ctx context.Context, unit gatekeeper.OrgUnit) error {
	payload := editRequest{
		Type: "org_unit",
		UUID: unit.UUID.String(),
		Data: orgUnitData{
			UUID:             unit.UUID.String(),
			UserKey:          unit.UserKey,
			Name:             unit.Name,
			Parent:           refOf(unit.ParentUUID),
			OrgUnitHierarchy: refOf(unit.HierarchyUUID),
			OrgUnitType:      refOf(unit.TypeUUID),
			OrgUnitLevel:     refOf(unit.LevelUUID),
			Validity:         validityOf(unit.Validity),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal edit payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+editPath, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build edit request")
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"unit": unit.UUID,
		"url":  req.URL.String(),
	}).Debug("Submitting org unit edit")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "edit org unit %s", unit.UUID)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("edit org unit %s: platform returned %d: %s", unit.UUID, resp.StatusCode, excerpt)
	}
	return nil
}

func refOf(id *uuid.UUID) *objectRef {
	if id == nil {
		return nil
	}
	return &objectRef{UUID: id.String()}
}

func validityOf(v gatekeeper.Validity) validityPayload {
	payload := validityPayload{From: v.From.Format("2006-01-02")}
	if v.To != nil {
		to := v.To.Format("2006-01-02")
		payload.To = &to
	}
	return payload
}
