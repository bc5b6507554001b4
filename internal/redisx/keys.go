package redisx

import "time"

const (
	// Catalog cache generation counter, bumped on every admin mutation.
	KeyCatalogVersion = "catalog:version"

	// Cached active-product list: catalog:v{version}:list:{filter} -> JSON []Product
	KeyCatalogList = "catalog:v%d:list:%s"

	// Cached active product: catalog:v{version}:item:{product_id} -> JSON Product
	KeyCatalogItem = "catalog:v%d:item:%s"

	// Admin session: session:{token} -> JSON session
	KeySession = "session:%s"

	// Server-side cart storage: cart:{name} -> JSON []Line
	KeyCart = "cart:%s"

	// Dedup event processing: dedup:{service}:{id} (id = event_id)
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCatalog = time.Minute
	TTLSession = 24 * time.Hour
	TTLCart    = 30 * 24 * time.Hour
	TTLDedup   = 48 * time.Hour
)
