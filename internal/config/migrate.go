package config

import "fmt"

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade marketboard)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// migrateV1ToV2 moves the hardcoded fallback coordination unit and admin
// roles into the config file.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Defaults.Coordination == "" {
		cfg.Defaults.Coordination = DefaultCoordination
	}
	if len(cfg.AdminRoles) == 0 {
		cfg.AdminRoles = append([]string{}, DefaultAdminRoles...)
	}
	cfg.Version = 2
	return nil
}

// migrateV2ToV3 adds documents_dir and display labels for the default statuses.
func migrateV2ToV3(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.DocumentsDir == "" {
		cfg.DocumentsDir = DefaultDocumentsDir
	}
	for i := range cfg.Statuses {
		if cfg.Statuses[i].Label != "" {
			continue
		}
		for _, d := range DefaultStatuses {
			if d.Name == cfg.Statuses[i].Name {
				cfg.Statuses[i].Label = d.Label
			}
		}
	}
	cfg.Version = 3
	return nil
}
