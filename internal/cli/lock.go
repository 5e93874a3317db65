package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ralt/mvnlock/internal/lockfile"
	"github.com/ralt/mvnlock/internal/metadata"
	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/project"
	"github.com/ralt/mvnlock/internal/reconciler"
	"github.com/ralt/mvnlock/internal/scanner"
	"github.com/ralt/mvnlock/internal/signer"
	"github.com/ralt/mvnlock/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewLockCmd creates the lock command
func NewLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Write the lock file for a built project",
		Long: `Parses the effective project document, reconciles the local
repository against its marker files, hashes every tracked artifact and
writes a lock file with sorted keys.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := validateConfig(config); err != nil {
				return err
			}

			logrus.Info("Starting lock file generation...")
			logrus.Debugf("Configuration: %+v", redact(*config))

			return runLock(cmd.Context(), config)
		},
	}

	// Inputs
	cmd.Flags().StringP("project-file", "p", "", "Effective project document (JSON, optionally gzip/xz compressed)")
	cmd.Flags().StringP("cache-dir", "c", "", "Populated local repository directory")
	cmd.Flags().StringP("deps-file", "d", "", "Raw dependency list to splice into deps")
	cmd.Flags().String("project-root", "", "Working copy root used to relativize module paths (defaults to the current directory)")

	// Output
	cmd.Flags().StringP("output", "o", lockfile.DefaultLockfileName, "Lock file path")

	// Build tool conventions
	cmd.Flags().String("build-dir-name", "target", "Build output directory name stripped from module paths")
	cmd.Flags().String("local-repo-id", metadata.DefaultLocalRepoID, "Local pseudo-repository id excluded from metadata")

	// Store registration
	cmd.Flags().Bool("no-add", false, "Do not register artifacts in the content-addressed store")
	cmd.Flags().String("store", store.KindNix, "Store backend (nix, dir)")
	cmd.Flags().String("store-dir", "", "Store directory for the dir backend")
	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "Parallel store registrations")

	cmd.Flags().Bool("verify", false, "Recompute SHA-1 of every artifact and compare with its digest file")

	// Signing
	cmd.Flags().StringP("gpg-key", "k", "", "Path to GPG private key for a detached lock file signature")
	cmd.Flags().String("gpg-passphrase", "", "GPG key passphrase")

	return cmd
}

func redact(config models.LockConfig) models.LockConfig {
	if config.GPGPassphrase != "" {
		config.GPGPassphrase = "***"
	}
	return config
}

func runLock(ctx context.Context, config *models.LockConfig) error {
	// Step 1: Parse the effective project
	logrus.Infof("Reading project document: %s", config.ProjectFile)
	desc, err := project.LoadFile(config.ProjectFile, project.Options{
		ProjectRoot:  config.ProjectRoot,
		BuildDirName: config.BuildDirName,
	})
	if err != nil {
		return err
	}
	logrus.Infof("Found %d modules", len(desc.Modules))

	// Step 2: Collect declared repositories
	remotes := project.BuildRemoteMap(desc.Projects)
	logrus.Infof("Found %d remote repositories", len(remotes))

	// Step 3: Load the pass-through dependency list
	var in lockfile.Inputs
	if config.DepsFile != "" {
		in.Deps, err = lockfile.LoadDeps(config.DepsFile)
		if err != nil {
			return err
		}
		logrus.Infof("Loaded %d dependency fragments", len(in.Deps))
	}

	// Step 4: Reconcile the local repository
	var st store.Store
	if !config.NoAdd {
		st, err = store.New(config.Store, config.StoreDir)
		if err != nil {
			return &models.LockError{Type: models.ErrInvalidConfig, Err: err}
		}
	}

	sc := scanner.NewFileSystemScanner()
	rec := reconciler.New(sc, st)
	rec.NoAdd = config.NoAdd
	rec.Verify = config.Verify
	rec.Jobs = config.Jobs

	logrus.Infof("Reconciling local repository: %s", config.CacheDir)
	artifacts, err := rec.Reconcile(ctx, config.CacheDir)
	if err != nil {
		return err
	}

	// Step 5: Collect remote metadata
	metas, err := metadata.NewAggregator(sc, config.LocalRepoID).Collect(ctx, config.CacheDir)
	if err != nil {
		return err
	}

	// Step 6: Assemble and write
	in.Root = desc.Root
	in.Modules = desc.Modules
	in.Artifacts = artifacts
	in.Metas = metas
	in.Remotes = remotes

	doc, err := lockfile.Assemble(in)
	if err != nil {
		return err
	}

	var sig signer.Signer
	if config.GPGKeyPath != "" {
		gpgSigner, err := signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
		if err != nil {
			return &models.LockError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
			}
		}
		sig = gpgSigner
		logrus.Info("GPG signer initialized")
	}

	// A cancelled run must not leave a lock file behind
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := lockfile.Write(config.Output, doc, sig); err != nil {
		return err
	}

	logrus.Info("Lock file generation completed successfully!")
	return nil
}
