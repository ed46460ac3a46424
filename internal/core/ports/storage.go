package ports

// Storage is the durable client-side key/value store backing the session and
// UI preferences. Implementations persist on every write; values are plain
// strings, mirroring browser local storage.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}
