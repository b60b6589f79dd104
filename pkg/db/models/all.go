package models

// All lists every persisted model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Restaurant{},
		&MenuItem{},
		&MenuOptionGroup{},
		&MenuOption{},
		&Discount{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
