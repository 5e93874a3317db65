package models

// LockConfig contains configuration for lock file generation
type LockConfig struct {
	// Inputs
	ProjectFile string `mapstructure:"project-file"`
	CacheDir    string `mapstructure:"cache-dir"`
	DepsFile    string `mapstructure:"deps-file"`
	ProjectRoot string `mapstructure:"project-root"`

	// Output
	Output string `mapstructure:"output"`

	// Build tool conventions
	BuildDirName string `mapstructure:"build-dir-name"` // Conventional build output directory, stripped from module paths
	LocalRepoID  string `mapstructure:"local-repo-id"`  // Pseudo-repository id excluded from metas

	// Store registration
	NoAdd    bool   `mapstructure:"no-add"`
	Store    string `mapstructure:"store"`     // nix or dir
	StoreDir string `mapstructure:"store-dir"` // For the dir store
	Jobs     int    `mapstructure:"jobs"`

	Verify bool `mapstructure:"verify"`

	// Signing
	GPGKeyPath    string `mapstructure:"gpg-key"`
	GPGPassphrase string `mapstructure:"gpg-passphrase"`
}
