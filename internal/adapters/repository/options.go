package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithDropDuplicates keeps only the first record of each date and discards
// the slots of later records sharing it.
func WithDropDuplicates() Option {
	return func(s *MemoryStore) {
		s.dropDuplicates = true
	}
}
