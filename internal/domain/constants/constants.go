// Package constants holds shared provider and collection names.
package constants

const (
	// Document store providers.
	StoreProviderFirestore = "firestore"
	StoreProviderMemory    = "memory"

	// Pub/Sub providers.
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"

	// Document collections. Field names inside these collections are part
	// of the persisted contract and must round-trip unchanged.
	CollectionUsers  = "users"
	CollectionCarts  = "carts"
	CollectionOrders = "orders"
)
