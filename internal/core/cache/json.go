package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 在字节缓存上包一层 JSON 编解码。
// 回源返回 nil 指针时缓存字面量 null，命中后还原成 nil。
func GetOrLoadJSON[T any](
	c Loader,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}
