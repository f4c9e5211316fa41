package ports

//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks

// CacheObserver is notified about memo store lookups, labelled by key space.
type CacheObserver interface {
	CacheHit(keySpace string)
	CacheMiss(keySpace string)
}
