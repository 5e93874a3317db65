// Package project reads an effective-project document into module records.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/utils"
	"github.com/sirupsen/logrus"
)

// Options controls path normalization of module build directories
type Options struct {
	ProjectRoot  string // Working copy root; build directories below it become "./..."
	BuildDirName string // Trailing build output directory name, e.g. "target"
}

// Descriptor is the parsed form of an effective-project document
type Descriptor struct {
	Root     models.Coordinates
	Modules  []models.ModuleRecord
	Projects []models.Project
}

type rawRepository struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// repositoryList accepts an array, a single entry, or an XML-style wrapper
// such as {"repository": [...]}.
type repositoryList []rawRepository

func (l *repositoryList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	if trimmed[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return err
		}
		for _, key := range []string{"repository", "pluginRepository"} {
			if inner, ok := wrapper[key]; ok {
				repos, err := decodeOneOrMany[rawRepository](inner)
				if err != nil {
					return err
				}
				*l = repos
				return nil
			}
		}
	}

	repos, err := decodeOneOrMany[rawRepository](trimmed)
	if err != nil {
		return err
	}
	*l = repos
	return nil
}

type rawProject struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
	Parent     *struct {
		GroupID string `json:"groupId"`
		Version string `json:"version"`
	} `json:"parent"`
	Build struct {
		Directory string `json:"directory"`
	} `json:"build"`
	Repositories       repositoryList `json:"repositories"`
	PluginRepositories repositoryList `json:"pluginRepositories"`
}

// LoadFile reads and parses an effective-project document, decompressing it if needed
func LoadFile(path string, opts Options) (*Descriptor, error) {
	data, err := utils.ReadInput(path)
	if err != nil {
		return nil, &models.LockError{
			Type: models.ErrFileOp,
			Path: path,
			Err:  fmt.Errorf("failed to read project document: %w", err),
		}
	}

	desc, err := Parse(data, opts)
	if err != nil {
		var lockErr *models.LockError
		if errors.As(err, &lockErr) && lockErr.Path == "" {
			lockErr.Path = path
		}
		return nil, err
	}
	return desc, nil
}

// Parse converts an effective-project document into root coordinates and module records.
// The document may be a single project, an array of projects, or the
// {"project": ...} / {"projects": {"project": ...}} wrappers.
func Parse(data []byte, opts Options) (*Descriptor, error) {
	raws, err := decodeProjects(data)
	if err != nil {
		return nil, models.NewError(models.ErrMalformedDescriptor, "", "failed to decode project document: %v", err)
	}

	if len(raws) == 0 {
		return nil, models.NewError(models.ErrMalformedDescriptor, "", "project document lists no projects")
	}

	desc := &Descriptor{}
	for i, raw := range raws {
		proj, err := toProject(raw)
		if err != nil {
			return nil, models.NewError(models.ErrMalformedDescriptor, "", "project #%d: %v", i, err)
		}

		module := models.ModuleRecord{
			Name:       proj.ArtifactID + "-" + proj.Version,
			GroupID:    proj.GroupID,
			ArtifactID: proj.ArtifactID,
			Version:    proj.Version,
			Path:       NormalizePath(proj.BuildDirectory, opts.ProjectRoot, opts.BuildDirName),
		}
		logrus.Debugf("Module %s:%s at %s", module.GroupID, module.Name, module.Path)

		desc.Projects = append(desc.Projects, proj)
		desc.Modules = append(desc.Modules, module)
	}

	desc.Root = desc.Projects[0].Coordinates
	return desc, nil
}

func toProject(raw rawProject) (models.Project, error) {
	groupID := raw.GroupID
	version := raw.Version
	if raw.Parent != nil {
		if groupID == "" {
			groupID = raw.Parent.GroupID
		}
		if version == "" {
			version = raw.Parent.Version
		}
	}

	var missing []string
	if groupID == "" {
		missing = append(missing, "groupId")
	}
	if raw.ArtifactID == "" {
		missing = append(missing, "artifactId")
	}
	if version == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return models.Project{}, fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}

	return models.Project{
		Coordinates: models.Coordinates{
			GroupID:    groupID,
			ArtifactID: raw.ArtifactID,
			Version:    version,
		},
		BuildDirectory:     raw.Build.Directory,
		Repositories:       toRepositories(raw.Repositories),
		PluginRepositories: toRepositories(raw.PluginRepositories),
	}, nil
}

func toRepositories(list repositoryList) []models.Repository {
	repos := make([]models.Repository, 0, len(list))
	for _, r := range list {
		repos = append(repos, models.Repository{ID: r.ID, URL: r.URL})
	}
	return repos
}

func decodeProjects(data []byte) ([]rawProject, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return nil, err
		}
		if _, isProject := keys["artifactId"]; !isProject {
			if inner, ok := keys["projects"]; ok {
				return decodeProjects(inner)
			}
			if inner, ok := keys["project"]; ok {
				return decodeProjects(inner)
			}
		}
	}

	return decodeOneOrMany[rawProject](trimmed)
}

func decodeOneOrMany[T any](data json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, err
		}
		return many, nil
	}

	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

// NormalizePath rewrites a module build directory relative to the project root
// and strips the trailing build output directory.
//
//	/src/app/core/target -> ./core
//	/src/app/target      -> .
func NormalizePath(dir, root, buildDirName string) string {
	p := filepath.ToSlash(dir)

	if root != "" {
		r := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(root)), "/")
		switch {
		case p == r:
			p = "."
		case strings.HasPrefix(p, r+"/"):
			p = "./" + strings.TrimPrefix(p, r+"/")
		}
	}

	if buildDirName != "" {
		switch {
		case p == "./"+buildDirName:
			p = "."
		case strings.HasSuffix(p, "/"+buildDirName):
			p = strings.TrimSuffix(p, "/"+buildDirName)
		}
	}

	return p
}
