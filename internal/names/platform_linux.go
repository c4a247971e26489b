//go:build linux

package names

func platformStrategies(cfg Config) []Strategy {
	return []Strategy{
		NewDesktopEntryStrategy(cfg.DesktopDirs),
	}
}
