package kvstore

// Store is a string-keyed, string-valued durable store. Keys are
// independent: there are no transactions across keys, and read-modify-write
// on a single key is not atomic either. Callers that need correctness under
// interleaving must be idempotent, not rely on locking here.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	GetAllKeys() ([]string, error)
	MultiRemove(keys []string) error
}
