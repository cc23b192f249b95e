package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(5*time.Minute, 10*time.Minute)

	c.Set("key", "value")

	v, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	c.Delete("key")

	_, ok = c.Get("key")
	assert.False(t, ok)
}

func TestCacheCustomExpiration(t *testing.T) {
	c := NewCache(5*time.Minute, 10*time.Minute)

	c.Set("key", "value", 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "published_blog:7", CacheKeyPublishedBlog(7))
	assert.Equal(t, "published_blogs:2:10", CacheKeyPublishedBlogs(2, 10))
	assert.Equal(t, "published_blogs_by_user:3:1:10", CacheKeyPublishedBlogsByUser(3, 1, 10))
}
