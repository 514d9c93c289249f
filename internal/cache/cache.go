package cache

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Keys written by the containers. Best-effort values, never authoritative:
// a fresh server response always wins over a cached one.
const (
	KeyProfileImage   = "profileImage"
	KeyCurrentOrderID = "currentOrderId"
)

type entry struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// Cache is the cross-session key/value store standing in for browser
// local storage. A nil *Cache is valid and disables caching.
type Cache struct {
	db *gorm.DB
}

func Open(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached value and whether it was present.
func (c *Cache) Get(key string) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}
	var e entry
	err := c.db.First(&e, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (c *Cache) Put(key, value string) error {
	if c == nil {
		return nil
	}
	e := entry{Key: key, Value: value}
	return c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error
}

func (c *Cache) Invalidate(key string) error {
	if c == nil {
		return nil
	}
	return c.db.Delete(&entry{}, "key = ?", key).Error
}
