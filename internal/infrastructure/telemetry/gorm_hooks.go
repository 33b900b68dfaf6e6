package telemetry

import "gorm.io/gorm"

// gormHook registers callbacks around one of gorm's core processors
type gormHook struct {
	op     string
	before func(name string, fn func(*gorm.DB)) error
	after  func(name string, fn func(*gorm.DB)) error
}

// gormHooks covers every statement kind gorm dispatches
func gormHooks(db *gorm.DB) []gormHook {
	cb := db.Callback()
	create, query, update, del, row, raw := cb.Create(), cb.Query(), cb.Update(), cb.Delete(), cb.Row(), cb.Raw()
	return []gormHook{
		{"create",
			func(n string, fn func(*gorm.DB)) error { return create.Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return create.After("gorm:create").Register(n, fn) }},
		{"query",
			func(n string, fn func(*gorm.DB)) error { return query.Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return query.After("gorm:query").Register(n, fn) }},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return update.Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return update.After("gorm:update").Register(n, fn) }},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return del.Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return del.After("gorm:delete").Register(n, fn) }},
		{"row",
			func(n string, fn func(*gorm.DB)) error { return row.Before("gorm:row").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return row.After("gorm:row").Register(n, fn) }},
		{"raw",
			func(n string, fn func(*gorm.DB)) error { return raw.Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return raw.After("gorm:raw").Register(n, fn) }},
	}
}
