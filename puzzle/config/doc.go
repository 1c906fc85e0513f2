// Package config provides puzzle configuration management.
//
// The config package handles:
//   - Loading board configurations from JSON files
//   - Configuration validation and caching
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Board configurations are stored as JSON files in the configs
// directory. Each configuration defines:
//   - The grid layout ('O' walls, '0' empty, 'a'-'z' pieces)
//   - The goal piece and its target anchor coordinate
//   - An optional legend with display names for pieces
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific configuration
//	cfg, err := manager.LoadConfig("classic")
//
//	// Get the default configuration
//	def := manager.GetDefault()
//
//	// List available configurations
//	infos, err := manager.ListConfigs()
package config
