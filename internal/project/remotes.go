package project

import (
	"github.com/ralt/mvnlock/internal/models"
	"github.com/sirupsen/logrus"
)

// BuildRemoteMap flattens every declared repository and plugin repository into
// one id -> URL map. Later declarations of an id overwrite earlier ones.
func BuildRemoteMap(projects []models.Project) models.RemoteRepoMap {
	remotes := make(models.RemoteRepoMap)

	for _, proj := range projects {
		for _, list := range [][]models.Repository{proj.Repositories, proj.PluginRepositories} {
			for _, repo := range list {
				if repo.ID == "" {
					logrus.Debugf("Ignoring repository without id in %s (%s)", proj.ArtifactID, repo.URL)
					continue
				}
				if prev, ok := remotes[repo.ID]; ok && prev != repo.URL {
					logrus.Debugf("Repository %s redeclared by %s: %s -> %s", repo.ID, proj.ArtifactID, prev, repo.URL)
				}
				remotes[repo.ID] = repo.URL
			}
		}
	}

	return remotes
}
