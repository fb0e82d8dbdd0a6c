package database

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

func NewMemcached(server string) (*memcache.Client, error) {
	mc := memcache.New(server)
	mc.Timeout = 500 * time.Millisecond

	err := mc.Ping()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reach memcached at %s", server)
	}
	return mc, nil
}
