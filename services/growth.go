package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"sync"
)

// GrowthStages in ascending maturity order. These are the only valid image
// cache keys.
var GrowthStages = []string{"seed", "sprout", "sapling", "tree", "mature"}

// growthImageKeyPrefix keys cached generated illustrations.
const growthImageKeyPrefix = "growth_stage_"

// Static fallback images served when generation fails or returns empty.
var GrowthFallbacks = map[string]string{
	"seed":    "https://images.unsplash.com/photo-1516051662668-db2d79c4a17e?q=80&w=800&auto=format&fit=crop",
	"sprout":  "https://images.unsplash.com/photo-1590439169212-9c31168c74a0?q=80&w=800&auto=format&fit=crop",
	"sapling": "https://images.unsplash.com/photo-1523348837708-15d4a09cfac2?q=80&w=800&auto=format&fit=crop",
	"tree":    "https://images.unsplash.com/photo-1542273917363-3b1817f69a2d?q=80&w=800&auto=format&fit=crop",
	"mature":  "https://images.unsplash.com/photo-1513836279014-a89f7a76ae86?q=80&w=800&auto=format&fit=crop",
}

// StageForLevel maps a level to its growth stage.
func StageForLevel(level int) string {
	switch {
	case level >= 10:
		return "mature"
	case level >= 7:
		return "tree"
	case level >= 4:
		return "sapling"
	case level >= 2:
		return "sprout"
	default:
		return "seed"
	}
}

// StageDisplayName is the Bengali label for a stage.
func StageDisplayName(stage string) string {
	switch stage {
	case "sprout":
		return "অঙ্কুর (Sprout)"
	case "sapling":
		return "চারাগাছ (Sapling)"
	case "tree":
		return "তরু (Young Tree)"
	case "mature":
		return "মহীরুহ (Mature)"
	default:
		return "বীজ (Seed)"
	}
}

// EncodeImageDataURI packs raw image bytes into a data URI the client can
// render directly.
func EncodeImageDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// ImageCache stores generated stage images keyed by stage key. It is purely
// an optimization: Get treats any underlying error as a miss, Put is
// best-effort.
type ImageCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key, dataURI string)
}

// MemoryImageCache is the in-process cache used when R2 is not configured
// and by tests.
type MemoryImageCache struct {
	mu     sync.RWMutex
	images map[string]string
}

func NewMemoryImageCache() *MemoryImageCache {
	return &MemoryImageCache{images: make(map[string]string)}
}

func (c *MemoryImageCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.images[key]
	return data, ok
}

func (c *MemoryImageCache) Put(_ context.Context, key, dataURI string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[key] = dataURI
}

// StageImageGenerator produces an illustration for a stage; an empty string
// means "no image, use the static fallback".
type StageImageGenerator interface {
	GeneratePlantImage(ctx context.Context, stage string) string
}

// GrowthImageService resolves the illustration for a growth stage:
// cache hit → cached image; miss → generate and populate the cache;
// generation failure → static fallback URL. The caller never blocks on a
// broken image.
type GrowthImageService struct {
	Cache     ImageCache
	Generator StageImageGenerator
}

func NewGrowthImageService(cache ImageCache, generator StageImageGenerator) *GrowthImageService {
	return &GrowthImageService{Cache: cache, Generator: generator}
}

// StageImage returns (image, cached) where image is a data URI or a fallback
// URL and cached reports a cache hit.
func (s *GrowthImageService) StageImage(ctx context.Context, stage string) (string, bool) {
	if !ValidStage(stage) {
		stage = "seed"
	}
	key := growthImageKeyPrefix + stage

	if cached, ok := s.Cache.Get(ctx, key); ok && cached != "" {
		return cached, true
	}

	generated := s.Generator.GeneratePlantImage(ctx, stage)
	if generated != "" {
		s.Cache.Put(ctx, key, generated)
		return generated, false
	}

	log.Printf("⚠️ [GROWTH] serving static fallback for stage %s", stage)
	return GrowthFallbacks[stage], false
}

// ValidStage reports whether stage is one of the five growth stages.
func ValidStage(stage string) bool {
	stage = strings.ToLower(stage)
	for _, s := range GrowthStages {
		if s == stage {
			return true
		}
	}
	return false
}
