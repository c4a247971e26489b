//go:build darwin

package names

func platformStrategies(cfg Config) []Strategy {
	return []Strategy{
		newRegistryStrategy(),
		newBundleStrategy(),
	}
}
