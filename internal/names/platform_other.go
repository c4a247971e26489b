//go:build !darwin && !linux

package names

func platformStrategies(cfg Config) []Strategy {
	return nil
}
