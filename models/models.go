package models

// All lists every persisted model for AutoMigrate
func All() []any {
	return []any{
		&Order{},
		&OrderEvent{},
		&NotificationLog{},
		&Contact{},
		&PortfolioItem{},
		&Promotion{},
		&ShowcaseVideo{},
		&ArtistModel{},
	}
}
