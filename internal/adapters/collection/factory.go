package collection

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// New selects the persistence variant at configuration time. The task store
// itself never forks on the variant.
func New(cfg *config.Config, session ports.Session, log *logger.Logger) (ports.CollectionStore, error) {
	switch cfg.Collection.Variant {
	case config.CollectionVariantLocal:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewLocalStore(client, cfg.Collection.LocalKey, log), nil
	case config.CollectionVariantRemote:
		return NewRemoteStore(cfg.Collection.APIBaseURL, cfg.Collection.APITimeout, session, log), nil
	default:
		return nil, fmt.Errorf("unknown collection variant %q", cfg.Collection.Variant)
	}
}
