package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const catalogCacheVersion = "1.0"

// CacheManager handles caching of the remote model catalog
type CacheManager struct {
	cacheDir string
}

// CacheMetadata stores metadata about the cache
type CacheMetadata struct {
	Key          string    `yaml:"key"`
	CacheVersion string    `yaml:"cache_version"`
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// ModelIndex represents the YAML index of known models
type ModelIndex struct {
	Models   []ModelInfo   `yaml:"models"`
	Metadata CacheMetadata `yaml:"metadata"`
}

// NewCacheManager creates a new cache manager
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{
		cacheDir: cacheDir,
	}
}

// EnsureCacheDir ensures the cache directory exists
func (cm *CacheManager) EnsureCacheDir() error {
	return os.MkdirAll(cm.cacheDir, 0755)
}

// GetCacheDir returns the cache directory path
func (cm *CacheManager) GetCacheDir() string {
	return cm.cacheDir
}

// GetIndexPath returns the path to the model index YAML file
func (cm *CacheManager) GetIndexPath() string {
	return filepath.Join(cm.cacheDir, "models.yaml")
}

// IsCacheValid checks if the index was written for key and is younger than ttl
func (cm *CacheManager) IsCacheValid(key string, ttl time.Duration, now time.Time) (bool, error) {
	if _, err := os.Stat(cm.GetIndexPath()); os.IsNotExist(err) {
		return false, nil
	}

	index, err := cm.LoadIndex()
	if err != nil {
		return false, nil
	}
	if index.Metadata.Key != key || index.Metadata.CacheVersion != catalogCacheVersion {
		return false, nil
	}
	if ttl > 0 && now.Sub(index.Metadata.UpdatedAt) > ttl {
		return false, nil
	}
	return true, nil
}

// LoadIndex loads the model index
func (cm *CacheManager) LoadIndex() (*ModelIndex, error) {
	data, err := os.ReadFile(cm.GetIndexPath())
	if err != nil {
		return nil, err
	}

	var index ModelIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}

	return &index, nil
}

// SaveIndex saves the model index
func (cm *CacheManager) SaveIndex(index *ModelIndex) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	return writeFileAtomic(cm.GetIndexPath(), data, 0644)
}

// ClearCache clears the cache
func (cm *CacheManager) ClearCache() error {
	if err := os.Remove(cm.GetIndexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ModelCatalog serves the model list from the cache when it is fresh and
// from the remote service otherwise
type ModelCatalog struct {
	cache  *CacheManager
	lister ModelLister
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// NewModelCatalog creates a catalog. key identifies the account the cached
// list belongs to.
func NewModelCatalog(cache *CacheManager, lister ModelLister, key string, ttl time.Duration) *ModelCatalog {
	return &ModelCatalog{
		cache:  cache,
		lister: lister,
		key:    key,
		ttl:    ttl,
		now:    time.Now,
	}
}

// ListModels implements ModelLister
func (mc *ModelCatalog) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if mc.cache != nil {
		valid, err := mc.cache.IsCacheValid(mc.key, mc.ttl, mc.now())
		if err == nil && valid {
			index, err := mc.cache.LoadIndex()
			if err == nil {
				LogDebug("Loaded %d model(s) from cache", len(index.Models))
				return index.Models, nil
			}
			LogWarn("Failed to load model cache: %v, querying service...", err)
		}
	}
	return mc.Refresh(ctx)
}

// Invalidate drops the cached list so the next ListModels asks the service
func (mc *ModelCatalog) Invalidate() error {
	if mc.cache == nil {
		return nil
	}
	return mc.cache.ClearCache()
}

// Refresh queries the service and rewrites the cache
func (mc *ModelCatalog) Refresh(ctx context.Context) ([]ModelInfo, error) {
	models, err := mc.lister.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	if mc.cache != nil {
		now := mc.now()
		index := &ModelIndex{
			Models: models,
			Metadata: CacheMetadata{
				Key:          mc.key,
				CacheVersion: catalogCacheVersion,
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		}
		if err := mc.cache.SaveIndex(index); err != nil {
			LogWarn("Failed to save model cache: %v", err)
		}
	}
	return models, nil
}
