package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pawsuite/petflow/pkg/metrics"
)

const queryStartKey = "petflow:query_start"

// InstrumentQueries registers gorm callbacks that time every statement and
// record it in the query-duration histogram, labelled by operation and table.
func InstrumentQueries(db *gorm.DB, collector *metrics.Collector) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			collector.DBQueryDuration.
				WithLabelValues(operation, tx.Statement.Table).
				Observe(time.Since(start).Seconds())
		}
	}

	if err := db.Callback().Create().Before("gorm:create").Register("petflow:time_create_start", before); err != nil {
		return err
	}
	if err := db.Callback().Create().After("gorm:create").Register("petflow:time_create_done", after("create")); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("petflow:time_query_start", before); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("petflow:time_query_done", after("query")); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("petflow:time_update_start", before); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("petflow:time_update_done", after("update")); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("petflow:time_delete_start", before); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("petflow:time_delete_done", after("delete")); err != nil {
		return err
	}
	return nil
}

// MonitorConnections samples the pool size on the given interval until ctx
// is cancelled.
func MonitorConnections(ctx context.Context, db *gorm.DB, collector *metrics.Collector, interval time.Duration) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
		}
	}
}
