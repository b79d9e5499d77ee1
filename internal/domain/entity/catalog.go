package entity

// Nombres de colección (también segmentos de ruta /api/{entity}).
const (
	CollectionVendors       = "vendors"
	CollectionProducts      = "products"
	CollectionAssets        = "assets"
	CollectionUsers         = "users"
	CollectionSupport       = "support"
	CollectionNotifications = "notifications"
	CollectionRecycleBin    = "recyclebin"
	CollectionActivityLogs  = "activitylogs"
)

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// VendorSchema proveedor.
func VendorSchema() Schema {
	return NewSchema(CollectionVendors,
		Field{Name: "name", Kind: KindString, Required: true},
		Field{Name: "email", Kind: KindString},
		Field{Name: "phone", Kind: KindString},
		Field{Name: "company", Kind: KindString},
		Field{Name: "logo", Kind: KindString},
	)
}

// ProductSchema producto; vendor es texto libre, no una referencia.
func ProductSchema() Schema {
	return NewSchema(CollectionProducts,
		Field{Name: "name", Kind: KindString, Required: true},
		Field{Name: "category", Kind: KindString},
		Field{Name: "price", Kind: KindDecimal},
		Field{Name: "vendor", Kind: KindString},
		Field{Name: "quantity", Kind: KindInt},
	)
}

// AssetSchema activo.
func AssetSchema() Schema {
	return NewSchema(CollectionAssets,
		Field{Name: "name", Kind: KindString, Required: true},
		Field{Name: "type", Kind: KindString},
		Field{Name: "assignedTo", Kind: KindString},
		Field{Name: "status", Kind: KindString},
		Field{Name: "purchaseDate", Kind: KindDate},
	)
}

// UserSchema usuario. El password se guarda como hash bcrypt.
func UserSchema() Schema {
	return NewSchema(CollectionUsers,
		Field{Name: "username", Kind: KindString, Required: true, Unique: true},
		Field{Name: "email", Kind: KindString, Unique: true},
		Field{Name: "role", Kind: KindString, Default: RoleUser},
		Field{Name: "password", Kind: KindString, Required: true, Secret: true},
	)
}

// CRUDSchemas esquemas expuestos por el CRUD genérico, en orden de registro.
func CRUDSchemas() []Schema {
	return []Schema{VendorSchema(), ProductSchema(), AssetSchema(), UserSchema()}
}

// SupportSchema campos de un ticket; lo usa la papelera para restaurar y proyectar.
func SupportSchema() Schema {
	return NewSchema(CollectionSupport,
		Field{Name: "name", Kind: KindString, Required: true},
		Field{Name: "email", Kind: KindString, Required: true},
		Field{Name: "subject", Kind: KindString, Required: true},
		Field{Name: "message", Kind: KindString, Required: true},
		Field{Name: "category", Kind: KindString, Default: DefaultTicketCategory},
		Field{Name: "priority", Kind: KindString, Default: DefaultTicketPriority},
		Field{Name: "status", Kind: KindString, Default: TicketOpen},
		Field{Name: "adminReply", Kind: KindString, Default: ""},
	)
}
