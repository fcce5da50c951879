// internal/wizard/persistence.go
package wizard

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"fiche-manager/internal/common/database"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"
)

const (
	draftKeyPrefix = "wizard:draft:"
	stepKeyPrefix  = "wizard:step:"

	// drafts linger for a month of inactivity before Redis reaps them
	draftTTL = 30 * 24 * time.Hour
)

// draftSchema describes the expected top-level shape of a persisted draft.
// It is used to detect shape drift between releases: fields that no longer
// match their declared type are dropped before decoding, so an old snapshot
// restores with those fields zero-defaulted instead of failing.
const draftSchema = `{
	"type": "object",
	"properties": {
		"client":               {"type": "object"},
		"dossierType":          {"type": "string"},
		"formationIds":         {"type": "array"},
		"formations":           {"type": "object"},
		"licenseLines":         {"type": "array"},
		"interventionDate":     {"type": "string"},
		"interventionLocation": {"type": "string"},
		"natureText":           {"type": "string"},
		"plan":                 {"type": "object"},
		"presence":             {"type": "object"},
		"evaluation":           {"type": "object"}
	}
}`

// RedisPersistence stores the draft and step under two per-user keys.
type RedisPersistence struct {
	redis  *database.RedisClient
	userID string
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewRedisPersistence(rdb *database.RedisClient, userID string, log logger.Logger) (*RedisPersistence, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(draftSchema))
	if err != nil {
		return nil, err
	}
	return &RedisPersistence{redis: rdb, userID: userID, schema: schema, logger: log}, nil
}

func (p *RedisPersistence) draftKey() string { return draftKeyPrefix + p.userID }
func (p *RedisPersistence) stepKey() string  { return stepKeyPrefix + p.userID }

func (p *RedisPersistence) SaveDraft(ctx context.Context, draft *models.Draft) error {
	data, err := marshalDraft(draft)
	if err != nil {
		return err
	}
	return p.redis.Set(ctx, p.draftKey(), data, draftTTL)
}

func (p *RedisPersistence) SaveStep(ctx context.Context, step int) error {
	return p.redis.Set(ctx, p.stepKey(), step, draftTTL)
}

// LoadDraft returns (nil, nil) when no snapshot exists. Snapshots from an
// older release may carry fields whose shape has since changed; those fields
// are dropped and zero-defaulted rather than failing the restore.
func (p *RedisPersistence) LoadDraft(ctx context.Context) (*models.Draft, error) {
	raw, err := p.redis.Get(ctx, p.draftKey())
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDraftRestoreFailedError(err)
	}

	cleaned, err := p.tolerantDecode(raw)
	if err != nil {
		return nil, errors.NewDraftRestoreFailedError(err)
	}
	return cleaned, nil
}

func (p *RedisPersistence) LoadStep(ctx context.Context) (int, error) {
	raw, err := p.redis.Get(ctx, p.stepKey())
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseStep(raw)
}

func (p *RedisPersistence) Clear(ctx context.Context) error {
	return p.redis.Del(ctx, p.draftKey(), p.stepKey())
}

// tolerantDecode validates the snapshot against the draft schema and strips
// any top-level field the schema rejects before unmarshalling.
func (p *RedisPersistence) tolerantDecode(raw string) (*models.Draft, error) {
	result, err := p.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, err
	}

	if !result.Valid() {
		var generic map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &generic); err != nil {
			return nil, err
		}
		for _, verr := range result.Errors() {
			field := topLevelField(verr.Field())
			if field == "" {
				continue
			}
			p.logger.Warn("dropping drifted draft field", map[string]interface{}{
				"field":  field,
				"reason": verr.Description(),
			})
			delete(generic, field)
		}
		data, err := json.Marshal(generic)
		if err != nil {
			return nil, err
		}
		raw = string(data)
	}

	draft := models.NewDraft()
	if err := json.Unmarshal([]byte(raw), draft); err != nil {
		return nil, err
	}
	if draft.Formations == nil {
		draft.Formations = make(map[string]models.FormationDetail)
	}
	return draft, nil
}

// topLevelField extracts the first segment of a gojsonschema field path
// ("plan.rows.0" -> "plan"). "(root)" errors have no droppable field.
func topLevelField(path string) string {
	if path == "" || path == "(root)" {
		return ""
	}
	if i := strings.IndexByte(path, '.'); i > 0 {
		return path[:i]
	}
	return path
}
