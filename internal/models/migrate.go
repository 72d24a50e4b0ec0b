package models

import "gorm.io/gorm"

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&FollowRelation{},
		&BlockRelation{},
		&Location{},
		&Post{},
		&Media{},
		&Tag{},
		&PostTag{},
		&TaggedUser{},
		&Comment{},
		&Like{},
		&Save{},
		&Notification{},
	}
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
