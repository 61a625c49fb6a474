// Package mo implements the gatekeeper's graph-query and write capabilities
// on top of the MO platform: GraphQL for reads, the details-edit HTTP
// endpoint for writes.
package mo

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	graphql "github.com/hasura/go-graphql-client"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orggatekeeper/internal/gatekeeper"
)

type Client struct {
	gql     *graphql.Client
	http    *http.Client
	baseURL string
	logger  *logrus.Logger
}

var (
	_ gatekeeper.Querier = (*Client)(nil)
	_ gatekeeper.Editor  = (*Client)(nil)
)

type ClientOptions struct {
	// BaseURL is the platform root, e.g. http://mo-service:5000.
	BaseURL string
	// HTTPClient should already carry authentication; defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		gql:     graphql.NewClient(baseURL+"/graphql", httpClient),
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger,
	}
}

// exactlyOne unwraps a query result that must contain a single record.
func exactlyOne[T any](items []T, what string) (T, error) {
	if len(items) != 1 {
		var zero T
		return zero, errors.Wrapf(gatekeeper.ErrAmbiguous, "%s: expected exactly one result, got %d", what, len(items))
	}
	return items[0], nil
}

type uuidUserKey struct {
	UUID    string `graphql:"uuid"`
	UserKey string `graphql:"user_key"`
}

const facetQuery = `
query FacetQuery {
  facets {
    uuid
    user_key
  }
}`

func (c *Client) FacetUUID(ctx context.Context, userKey string) (uuid.UUID, error) {
	var resp struct {
		Facets []uuidUserKey `graphql:"facets"`
	}
	if err := c.gql.Exec(ctx, facetQuery, &resp, nil); err != nil {
		return uuid.Nil, errors.Wrap(err, "facet query")
	}
	for _, facet := range resp.Facets {
		if facet.UserKey == userKey {
			return uuid.Parse(facet.UUID)
		}
	}
	return uuid.Nil, errors.Wrapf(gatekeeper.ErrNotFound, "facet %q", userKey)
}

const classQuery = `
query ClassQuery($uuids: [UUID!]) {
  facets(uuids: $uuids) {
    classes {
      uuid
      user_key
    }
  }
}`

func (c *Client) ClassUUID(ctx context.Context, facet uuid.UUID, userKey string) (uuid.UUID, error) {
	var resp struct {
		Facets []struct {
			Classes []uuidUserKey `graphql:"classes"`
		} `graphql:"facets"`
	}
	if err := c.gql.Exec(ctx, classQuery, &resp, uuidsVariable(facet)); err != nil {
		return uuid.Nil, errors.Wrap(err, "class query")
	}
	container, err := exactlyOne(resp.Facets, "facet "+facet.String())
	if err != nil {
		return uuid.Nil, err
	}
	for _, class := range container.Classes {
		if class.UserKey == userKey {
			return uuid.Parse(class.UUID)
		}
	}
	return uuid.Nil, errors.Wrapf(gatekeeper.ErrNotFound, "class %q in facet %s", userKey, facet)
}

const orgUnitQuery = `
query OrgUnitQuery($uuids: [UUID!]) {
  org_units(uuids: $uuids) {
    objects {
      uuid
      user_key
      validity {
        from
        to
      }
      name
      parent_uuid
      org_unit_hierarchy
      unit_type_uuid
      org_unit_level_uuid
    }
  }
}`

type orgUnitObject struct {
	UUID     string `graphql:"uuid"`
	UserKey  string `graphql:"user_key"`
	Validity struct {
		From string  `graphql:"from"`
		To   *string `graphql:"to"`
	} `graphql:"validity"`
	Name             string  `graphql:"name"`
	ParentUUID       *string `graphql:"parent_uuid"`
	OrgUnitHierarchy *string `graphql:"org_unit_hierarchy"`
	UnitTypeUUID     *string `graphql:"unit_type_uuid"`
	OrgUnitLevelUUID *string `graphql:"org_unit_level_uuid"`
}

func (c *Client) OrgUnit(ctx context.Context, unit uuid.UUID) (gatekeeper.OrgUnit, error) {
	var resp struct {
		OrgUnits []struct {
			Objects []orgUnitObject `graphql:"objects"`
		} `graphql:"org_units"`
	}
	if err := c.gql.Exec(ctx, orgUnitQuery, &resp, uuidsVariable(unit)); err != nil {
		return gatekeeper.OrgUnit{}, errors.Wrapf(err, "org unit query for %s", unit)
	}
	wrapper, err := exactlyOne(resp.OrgUnits, "org unit "+unit.String())
	if err != nil {
		return gatekeeper.OrgUnit{}, err
	}
	obj, err := exactlyOne(wrapper.Objects, "org unit objects for "+unit.String())
	if err != nil {
		return gatekeeper.OrgUnit{}, err
	}
	return convertOrgUnit(obj)
}

func convertOrgUnit(obj orgUnitObject) (gatekeeper.OrgUnit, error) {
	id, err := uuid.Parse(obj.UUID)
	if err != nil {
		return gatekeeper.OrgUnit{}, errors.Wrap(err, "org unit uuid")
	}
	parent, err := parseUUIDPtr(obj.ParentUUID)
	if err != nil {
		return gatekeeper.OrgUnit{}, errors.Wrap(err, "parent uuid")
	}
	hierarchy, err := parseUUIDPtr(obj.OrgUnitHierarchy)
	if err != nil {
		return gatekeeper.OrgUnit{}, errors.Wrap(err, "hierarchy uuid")
	}
	unitType, err := parseUUIDPtr(obj.UnitTypeUUID)
	if err != nil {
		return gatekeeper.OrgUnit{}, errors.Wrap(err, "unit type uuid")
	}
	level, err := parseUUIDPtr(obj.OrgUnitLevelUUID)
	if err != nil {
		return gatekeeper.OrgUnit{}, errors.Wrap(err, "unit level uuid")
	}
	validity, err := parseValidity(obj.Validity.From, obj.Validity.To)
	if err != nil {
		return gatekeeper.OrgUnit{}, err
	}
	return gatekeeper.OrgUnit{
		UUID:          id,
		UserKey:       obj.UserKey,
		Name:          obj.Name,
		ParentUUID:    parent,
		HierarchyUUID: hierarchy,
		TypeUUID:      unitType,
		LevelUUID:     level,
		Validity:      validity,
	}, nil
}

const unitLevelQuery = `
query OrgUnitLevelQuery($uuids: [UUID!]) {
  org_units(uuids: $uuids) {
    objects {
      org_unit_level {
        user_key
      }
      engagements {
        uuid
      }
      associations {
        uuid
      }
    }
  }
}`

func (c *Client) UnitLevel(ctx context.Context, unit uuid.UUID) (gatekeeper.UnitLevel, error) {
	var resp struct {
		OrgUnits []struct {
			Objects []struct {
				OrgUnitLevel *struct {
					UserKey string `graphql:"user_key"`
				} `graphql:"org_unit_level"`
				Engagements []struct {
					UUID string `graphql:"uuid"`
				} `graphql:"engagements"`
				Associations []struct {
					UUID string `graphql:"uuid"`
				} `graphql:"associations"`
			} `graphql:"objects"`
		} `graphql:"org_units"`
	}
	if err := c.gql.Exec(ctx, unitLevelQuery, &resp, uuidsVariable(unit)); err != nil {
		return gatekeeper.UnitLevel{}, errors.Wrapf(err, "unit level query for %s", unit)
	}
	wrapper, err := exactlyOne(resp.OrgUnits, "org unit "+unit.String())
	if err != nil {
		return gatekeeper.UnitLevel{}, err
	}
	obj, err := exactlyOne(wrapper.Objects, "org unit objects for "+unit.String())
	if err != nil {
		return gatekeeper.UnitLevel{}, err
	}
	level := gatekeeper.UnitLevel{
		Engagements:  len(obj.Engagements),
		Associations: len(obj.Associations),
	}
	if obj.OrgUnitLevel != nil {
		level.LevelUserKey = obj.OrgUnitLevel.UserKey
	}
	return level, nil
}

const parentQuery = `
query ParentQuery($uuids: [UUID!]) {
  org_units(uuids: $uuids) {
    objects {
      user_key
      parent_uuid
    }
  }
}`

func (c *Client) ParentLink(ctx context.Context, unit uuid.UUID) (gatekeeper.ParentLink, error) {
	var resp struct {
		OrgUnits []struct {
			Objects []struct {
				UserKey    string  `graphql:"user_key"`
				ParentUUID *string `graphql:"parent_uuid"`
			} `graphql:"objects"`
		} `graphql:"org_units"`
	}
	if err := c.gql.Exec(ctx, parentQuery, &resp, uuidsVariable(unit)); err != nil {
		return gatekeeper.ParentLink{}, errors.Wrapf(err, "parent query for %s", unit)
	}
	wrapper, err := exactlyOne(resp.OrgUnits, "org unit "+unit.String())
	if err != nil {
		return gatekeeper.ParentLink{}, err
	}
	obj, err := exactlyOne(wrapper.Objects, "org unit objects for "+unit.String())
	if err != nil {
		return gatekeeper.ParentLink{}, err
	}
	parent, err := parseUUIDPtr(obj.ParentUUID)
	if err != nil {
		return gatekeeper.ParentLink{}, errors.Wrap(err, "parent uuid")
	}
	return gatekeeper.ParentLink{UserKey: obj.UserKey, ParentUUID: parent}, nil
}

const allUnitsQuery = `
query OrgUnitsQuery {
  org_units {
    uuid
  }
}`

func (c *Client) AllUnitUUIDs(ctx context.Context) ([]uuid.UUID, error) {
	var resp struct {
		OrgUnits []struct {
			UUID string `graphql:"uuid"`
		} `graphql:"org_units"`
	}
	if err := c.gql.Exec(ctx, allUnitsQuery, &resp, nil); err != nil {
		return nil, errors.Wrap(err, "org units query")
	}
	uuids := make([]uuid.UUID, 0, len(resp.OrgUnits))
	for _, unit := range resp.OrgUnits {
		id, err := uuid.Parse(unit.UUID)
		if err != nil {
			return nil, errors.Wrap(err, "org unit uuid")
		}
		uuids = append(uuids, id)
	}
	return uuids, nil
}

func uuidsVariable(ids ...uuid.UUID) map[string]interface{} {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return map[string]interface{}{"uuids": strs}
}

func parseUUIDPtr(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseValidity(from string, to *string) (gatekeeper.Validity, error) {
	fromTime, err := parsePlatformTime(from)
	if err != nil {
		return gatekeeper.Validity{}, errors.Wrap(err, "validity from")
	}
	validity := gatekeeper.Validity{From: fromTime}
	if to != nil && *to != "" {
		toTime, err := parsePlatformTime(*to)
		if err != nil {
			return gatekeeper.Validity{}, errors.Wrap(err, "validity to")
		}
		validity.To = &toTime
	}
	return validity, nil
}

// The platform emits RFC3339 timestamps, bare dates occur in older data.
func parsePlatformTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
