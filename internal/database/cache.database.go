package database

import (
	"fmt"
	"upkeep/config"

	"github.com/valkey-io/valkey-go"
)

type CacheClient valkey.Client

// Valkey database index organization. Each index is a logical namespace so a
// flush of one concern never touches another.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous short-lived values
	GENERAL_CACHE_INDEX = iota

	// CATALOG_CACHE_INDEX (DB 1) - resolved per-business equipment-type
	// catalogs, invalidated on every type write
	CATALOG_CACHE_INDEX

	// REPORTS_CACHE_INDEX (DB 2) - due-report snapshots written by the
	// daily job
	REPORTS_CACHE_INDEX
)

type Cache struct {
	General CacheClient
	Catalog CacheClient
	Reports CacheClient
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    GENERAL_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create general cache client", err)
	}

	cacheDB.Catalog, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    CATALOG_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create catalog cache client", err)
	}

	cacheDB.Reports, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    REPORTS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create reports cache client", err)
	}

	s.Cache = cacheDB

	log.Info("cache database initialized")
	return nil
}

// FlushAllCaches empties every cache index. Used by the seed path to reach a
// clean state.
func (s *DB) FlushAllCaches() error {
	for _, client := range []CacheClient{s.Cache.General, s.Cache.Catalog, s.Cache.Reports} {
		if err := FlushIndex(client); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) close() {
	for _, client := range []CacheClient{c.General, c.Catalog, c.Reports} {
		if client != nil {
			client.Close()
		}
	}
}
