package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Delete(key string) {
	c.Cache.Delete(key)
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

func CacheKeyPublishedBlog(id int) string {
	return "published_blog:" + strconv.Itoa(id)
}

func CacheKeyPublishedBlogs(page, limit int) string {
	return "published_blogs:" + strconv.Itoa(page) + ":" + strconv.Itoa(limit)
}

func CacheKeyPublishedBlogsByUser(userID, page, limit int) string {
	return "published_blogs_by_user:" + strconv.Itoa(userID) + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(limit)
}
