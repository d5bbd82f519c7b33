package ctx

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ibrahim77gh/cre-studio-backend/pkg/cache"
)

// Context carries the shared infrastructure handles (database, cache, logger)
// that repositories and services are constructed from.
type Context struct {
	DB    *gorm.DB
	Redis cache.ICache
	Ctx   context.Context
	Log   *zap.SugaredLogger
}

func NewContext(ctx context.Context, db *gorm.DB, redis cache.ICache, log *zap.SugaredLogger) *Context {
	return &Context{
		DB:    db,
		Redis: redis,
		Ctx:   ctx,
		Log:   log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

func (c *Context) GetDB() *gorm.DB {
	return c.DB
}

func (c *Context) GetRedis() cache.ICache {
	return c.Redis
}
