package models

// ModuleRecord describes one module of the built project
type ModuleRecord struct {
	Name       string `json:"name"`
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
	Path       string `json:"path"`
}

// Coordinates identifies the root module of a project
type Coordinates struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// Repository is one declared remote repository
type Repository struct {
	ID  string
	URL string
}

// Project is a parsed effective-project entry before it is reduced to a ModuleRecord
type Project struct {
	Coordinates
	BuildDirectory     string
	Repositories       []Repository
	PluginRepositories []Repository
}

// RemoteRepoMap maps repository ids to base URLs
type RemoteRepoMap map[string]string
