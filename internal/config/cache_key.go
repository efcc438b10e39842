package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TestBySlugKey returns the cache key for a test payload keyed by its slug.
func (r *CacheKeyStruct) TestBySlugKey(slug string) string {
	return fmt.Sprintf("test:slug:%s", slug)
}

// TestStatsKey returns the cache key for a test's submission counters.
func (r *CacheKeyStruct) TestStatsKey(testID string) string {
	return fmt.Sprintf("test:%s:stats", testID)
}

var CacheKey = NewCacheKeyStruct()
