package models

import "encoding/json"

// TrackedArtifact is one resolved dependency file under the cache root
type TrackedArtifact struct {
	Path string `json:"path"`
	SHA1 string `json:"sha1"`

	// Repository is the id of the remote repository that supplied the file
	Repository string `json:"-"`
}

// MetadataDocument is one remote repository metadata file
type MetadataDocument struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// LockDocument is the root of the emitted lock file
type LockDocument struct {
	Name       string             `json:"name"`
	GroupID    string             `json:"groupId"`
	ArtifactID string             `json:"artifactId"`
	Version    string             `json:"version"`
	Submodules []ModuleRecord     `json:"submodules"`
	Deps       []json.RawMessage  `json:"deps"`
	Metas      []MetadataDocument `json:"metas"`
	Remotes    RemoteRepoMap      `json:"remotes"`
}
