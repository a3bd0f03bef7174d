// Package cache provides a small generic LRU cache used to keep parsed
// fonts between renders.
//
//	c := cache.New[string, *typeset.Font](64)
//	c.Set(url, font)
//	font, ok := c.Get(url)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
