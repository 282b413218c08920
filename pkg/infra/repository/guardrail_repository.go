package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/common"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var guardrailUpdateColumns = []string{
	"name", "description", "category", "severity", "validation_type", "scope",
	"enabled", "priority", "tags", "rule_body", "settings",
	"applicable_functions", "applicable_platforms", "updated_at",
}

type guardrailRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
	cache  *cache.Cache
}

func NewGuardrailRepository(db *gorm.DB, logger *logrus.Logger, cache *cache.Cache) guardrail.Repository {
	return &guardrailRepository{
		db:     db,
		logger: logger,
		cache:  cache,
	}
}

func (r *guardrailRepository) Get(ctx context.Context, id string) (*guardrail.Guardrail, error) {
	if def, err := r.cache.GetGuardrail(ctx, id); err == nil {
		return def, nil
	}

	var def guardrail.Guardrail
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&def).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NewNotFoundError("guardrail", id)
		}
		return nil, err
	}

	if err := r.cache.SaveGuardrail(ctx, &def); err != nil {
		r.logger.WithError(err).Warn("failed to cache guardrail")
	}
	return &def, nil
}

func (r *guardrailRepository) List(ctx context.Context, filter guardrail.ListFilter) ([]guardrail.Guardrail, error) {
	query := r.db.WithContext(ctx).Model(&guardrail.Guardrail{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.ValidationType != "" {
		query = query.Where("validation_type = ?", filter.ValidationType)
	}
	if filter.Scope != "" {
		query = query.Where("scope = ?", filter.Scope)
	}
	if filter.Enabled != nil {
		query = query.Where("enabled = ?", *filter.Enabled)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("id ILIKE ? OR name ILIKE ? OR description ILIKE ?", like, like, like)
	}

	var defs []guardrail.Guardrail
	if err := query.Order("priority asc, id asc").Find(&defs).Error; err != nil {
		return nil, err
	}

	if filter.Tag != "" {
		tagged := make([]guardrail.Guardrail, 0, len(defs))
		for _, def := range defs {
			if def.HasTag(filter.Tag) {
				tagged = append(tagged, def)
			}
		}
		defs = tagged
	}
	return defs, nil
}

func (r *guardrailRepository) GetGlobal(ctx context.Context) ([]guardrail.Guardrail, error) {
	var defs []guardrail.Guardrail
	err := r.db.WithContext(ctx).
		Where("scope = ?", guardrail.ScopeGlobal).
		Order("priority asc, id asc").
		Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *guardrailRepository) GetForFunction(ctx context.Context, functionID string) ([]guardrail.Guardrail, error) {
	var defs []guardrail.Guardrail
	err := r.db.WithContext(ctx).
		Where("scope = ?", guardrail.ScopeFunctionSpecific).
		Order("priority asc, id asc").
		Find(&defs).Error
	if err != nil {
		return nil, err
	}

	// Applicability lives in a jsonb list; filtering here keeps the SQL
	// portable and the rule in one place.
	matched := make([]guardrail.Guardrail, 0, len(defs))
	for _, def := range defs {
		if def.AppliesToFunction(functionID) {
			matched = append(matched, def)
		}
	}

	if err := r.updateFunctionRulesCache(ctx, functionID, matched); err != nil {
		r.logger.WithError(err).Error("failed to update function rules cache")
	}
	return matched, nil
}

func (r *guardrailRepository) Upsert(ctx context.Context, def *guardrail.Guardrail) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(guardrailUpdateColumns),
	}).Create(def).Error
	if err != nil {
		return err
	}
	r.invalidateGuardrail(ctx, def.ID)
	return nil
}

func (r *guardrailRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&guardrail.Guardrail{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("guardrail", id)
	}
	r.invalidateGuardrail(ctx, id)
	return nil
}

func (r *guardrailRepository) Toggle(ctx context.Context, id string, enabled bool) error {
	result := r.db.WithContext(ctx).Model(&guardrail.Guardrail{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"enabled": enabled, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("guardrail", id)
	}
	r.invalidateGuardrail(ctx, id)
	return nil
}

func (r *guardrailRepository) GetOverrides(ctx context.Context, functionID string) ([]guardrail.Override, error) {
	var overrides []guardrail.Override
	err := r.db.WithContext(ctx).
		Where("function_id = ?", functionID).
		Order("guardrail_id asc").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *guardrailRepository) UpsertOverride(ctx context.Context, override *guardrail.Override) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "function_id"}, {Name: "guardrail_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"definition", "enabled", "updated_at"}),
	}).Create(override).Error
	if err != nil {
		return err
	}
	r.invalidateFunction(ctx, override.FunctionID)
	return nil
}

func (r *guardrailRepository) DeleteOverride(ctx context.Context, functionID, guardrailID string) error {
	result := r.db.WithContext(ctx).Unscoped().
		Where("function_id = ? AND guardrail_id = ?", functionID, guardrailID).
		Delete(&guardrail.Override{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("override", functionID+"/"+guardrailID)
	}
	r.invalidateFunction(ctx, functionID)
	return nil
}

func (r *guardrailRepository) DeleteOverrides(ctx context.Context, functionID string) error {
	err := r.db.WithContext(ctx).Unscoped().
		Where("function_id = ?", functionID).
		Delete(&guardrail.Override{}).Error
	if err != nil {
		return err
	}
	r.invalidateFunction(ctx, functionID)
	return nil
}

func (r *guardrailRepository) updateFunctionRulesCache(ctx context.Context, functionID string, defs []guardrail.Guardrail) error {
	data, err := json.Marshal(defs)
	if err != nil {
		return fmt.Errorf("failed to marshal function rules: %w", err)
	}
	key := fmt.Sprintf(cache.FunctionRulesPattern, functionID)
	return r.cache.Set(ctx, key, string(data), common.FunctionCacheTTL)
}

func (r *guardrailRepository) invalidateGuardrail(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, fmt.Sprintf(cache.GuardrailKeyPattern, id)); err != nil {
		r.logger.WithError(err).Warn("failed to invalidate guardrail cache")
	}
	if err := r.cache.Delete(ctx, cache.GuardrailsKey); err != nil {
		r.logger.WithError(err).Warn("failed to invalidate guardrail listing cache")
	}
	if err := r.cache.DeleteEffectiveSets(ctx); err != nil {
		r.logger.WithError(err).Warn("failed to invalidate effective sets")
	}
}

func (r *guardrailRepository) invalidateFunction(ctx context.Context, functionID string) {
	if err := r.cache.DeleteFunctionData(ctx, functionID); err != nil {
		r.logger.WithError(err).Warn("failed to invalidate function cache")
	}
}
