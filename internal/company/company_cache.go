package company

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	CompanyCacheKeyPrefix = "company:settings:"
	CompanyCacheTTL       = 10 * time.Minute
)

func GetCompanyCacheKey(id uuid.UUID) string {
	return CompanyCacheKeyPrefix + id.String()
}

// GetCompanyGenerationKey holds a counter bumped on every write. Cached
// entries carry the generation they were loaded under and are ignored once
// it moves on, so a fill racing an update cannot resurrect old settings.
func GetCompanyGenerationKey(id uuid.UUID) string {
	return CompanyCacheKeyPrefix + id.String() + ":gen"
}

type cachedCompany struct {
	Company    *Company `json:"company"`
	Generation int64    `json:"gen"`
}

// cachedRepository keeps company settings in Redis. Payslip generation reads
// them on every request while admins change them rarely.
type cachedRepository struct {
	Repository
	rdb    redis.Cmdable
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewCachedRepository wraps repo with a Redis read-through cache. Writes go to
// repo first and then retire the cached copy.
func NewCachedRepository(repo Repository, rdb redis.Cmdable, logger ...*zap.Logger) Repository {
	if rdb == nil {
		return repo
	}
	l := zap.L().Named("company.cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &cachedRepository{Repository: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (r *cachedRepository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	key := GetCompanyCacheKey(id)

	gen, cached, err := r.read(ctx, id)
	if err != nil {
		r.logger.Warn("company cache read failed", zap.String("key", key), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	v, err, _ := r.sf.Do(key+":"+strconv.FormatInt(gen, 10), func() (any, error) {
		comp, err := r.Repository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(cachedCompany{Generation: gen, Company: comp}); err == nil {
			if err := r.rdb.Set(ctx, key, data, CompanyCacheTTL).Err(); err != nil {
				r.logger.Warn("company cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return comp, nil
	})
	if err != nil {
		return nil, err
	}

	comp := *v.(*Company)
	return &comp, nil
}

// read returns the current generation and the cached company when the entry
// belongs to that generation.
func (r *cachedRepository) read(ctx context.Context, id uuid.UUID) (int64, *Company, error) {
	vals, err := r.rdb.MGet(ctx, GetCompanyCacheKey(id), GetCompanyGenerationKey(id)).Result()
	if err != nil {
		return 0, nil, err
	}
	if len(vals) != 2 {
		return 0, nil, errors.New("unexpected mget reply")
	}

	var gen int64
	if raw, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return 0, nil, err
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		return gen, nil, nil
	}
	var entry cachedCompany
	if json.Unmarshal([]byte(raw), &entry) != nil || entry.Company == nil || entry.Generation != gen {
		return gen, nil, nil
	}
	return gen, entry.Company, nil
}

func (r *cachedRepository) Update(ctx context.Context, company *Company) error {
	if err := r.Repository.Update(ctx, company); err != nil {
		return err
	}
	r.invalidate(ctx, company.ID)
	return nil
}

func (r *cachedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// invalidate bumps the generation before deleting the entry, so an in-flight
// fill that Sets after the delete is still recognised as stale.
func (r *cachedRepository) invalidate(ctx context.Context, id uuid.UUID) {
	key := GetCompanyCacheKey(id)
	if err := r.rdb.Incr(ctx, GetCompanyGenerationKey(id)).Err(); err != nil {
		r.logger.Error("failed to bump company cache generation", zap.String("key", key), zap.Error(err))
	}
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		r.logger.Error("failed to invalidate company cache", zap.String("key", key), zap.Error(err))
	}
}
