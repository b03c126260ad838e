package database

import (
	"errors"

	"github.com/routeops/delay-monitor/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Route{},
		&models.MonitorRun{},
	)
}

func Seed(db *gorm.DB) error {
	routes := []models.Route{
		{RouteID: "route-sf-oak", Origin: "San Francisco, CA", Destination: "Oakland, CA", BaselineTimeMinutes: 30},
		{RouteID: "route-sf-sj", Origin: "San Francisco, CA", Destination: "San Jose, CA", BaselineTimeMinutes: 55},
		{RouteID: "route-oak-berk", Origin: "Oakland, CA", Destination: "Berkeley, CA", BaselineTimeMinutes: 20},
	}

	for _, r := range routes {
		var existing models.Route
		if err := db.Where("route_id = ?", r.RouteID).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&r).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
