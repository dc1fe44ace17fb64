package cache

import (
	"go.uber.org/zap"
)

// Chain composes the fast tier, the session mirror and the durable tier into
// one Tier with an explicit fallback policy:
//
//   - Put writes the fast tier first and fails loudly if that fails; mirror
//     and durable writes are best-effort and their failures are only logged.
//   - Get tries fast, then mirror, then durable, promoting a hit from a
//     slower tier back into the fast tier.
//
// Mirror and durable may be nil.
type Chain struct {
	fast    Tier
	mirror  Tier
	durable Tier
}

func NewChain(fast, mirror, durable Tier) *Chain {
	return &Chain{fast: fast, mirror: mirror, durable: durable}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Put(key string, value []byte) error {
	if err := c.fast.Put(key, value); err != nil {
		return err
	}
	if c.mirror != nil {
		if err := c.mirror.Put(key, value); err != nil {
			zap.L().Warn("cache mirror tier put failed",
				zap.String("tier", c.mirror.Name()), zap.String("key", key), zap.Error(err))
		}
	}
	if c.durable != nil {
		if err := c.durable.Put(key, value); err != nil {
			zap.L().Warn("cache durable tier put failed",
				zap.String("tier", c.durable.Name()), zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (c *Chain) Get(key string) ([]byte, bool, error) {
	v, ok, err := c.fast.Get(key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return v, true, nil
	}
	for _, tier := range []Tier{c.mirror, c.durable} {
		if tier == nil {
			continue
		}
		v, ok, err = tier.Get(key)
		if err != nil {
			zap.L().Warn("cache tier get failed",
				zap.String("tier", tier.Name()), zap.String("key", key), zap.Error(err))
			continue
		}
		if ok {
			// promote into the fast tier so the next read is synchronous
			if perr := c.fast.Put(key, v); perr != nil {
				return nil, false, perr
			}
			return v, true, nil
		}
	}
	return nil, false, nil
}

func (c *Chain) Remove(key string) error {
	if err := c.fast.Remove(key); err != nil {
		return err
	}
	for _, tier := range []Tier{c.mirror, c.durable} {
		if tier == nil {
			continue
		}
		if err := tier.Remove(key); err != nil {
			zap.L().Warn("cache tier remove failed",
				zap.String("tier", tier.Name()), zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (c *Chain) Has(key string) (bool, error) {
	ok, err := c.fast.Has(key)
	if err != nil || ok {
		return ok, err
	}
	for _, tier := range []Tier{c.mirror, c.durable} {
		if tier == nil {
			continue
		}
		if ok, err := tier.Has(key); err == nil && ok {
			return true, nil
		}
	}
	return false, nil
}
