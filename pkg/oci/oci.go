package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
	"oras.land/oras-go/v2/registry/remote/retry"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
)

const (
	// ArtifactType identifies a bundle manifest.
	ArtifactType = "application/vnd.joshua.bundle.v1"

	// LayerMediaType is the media type of the bundle directory layer.
	LayerMediaType = "application/vnd.joshua.bundle.layer.v1.tar+gzip"

	// DefaultTag is used when no tag is given.
	DefaultTag = "latest"
)

// PushOptions configures Push.
type PushOptions struct {
	// SourceDir is the bundle directory to push.
	SourceDir string

	// Registry is the registry host, with an optional port.
	Registry string

	// Repository is the repository path within the registry.
	Repository string

	// Tag defaults to DefaultTag.
	Tag string

	// PlainHTTP talks to the registry over HTTP.
	PlainHTTP bool

	// InsecureTLS skips certificate verification.
	InsecureTLS bool

	// Username and Password are static credentials. When empty, credentials
	// come from the Docker config file.
	Username string
	Password string

	// Annotations are added to the manifest.
	Annotations map[string]string
}

// PushResult describes a pushed bundle.
type PushResult struct {
	// Reference is the full tagged reference.
	Reference string

	// Digest is the manifest digest.
	Digest string

	// Size is the manifest size in bytes.
	Size int64
}

// ValidateRegistryReference checks that registry and repository form a valid
// name without a tag or digest, and returns the normalized reference.
func ValidateRegistryReference(registry, repository string) (reference.Named, error) {
	if registry == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "registry is required")
	}
	if repository == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "repository is required")
	}

	named, err := reference.ParseNamed(registry + "/" + repository)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid registry reference %s/%s", registry, repository), err)
	}
	if !reference.IsNameOnly(named) {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("repository %s must not include a tag or digest", repository))
	}
	if reference.Domain(named) != registry {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("registry %s is not a valid registry host", registry))
	}
	return named, nil
}

// TaggedReference validates the push target and returns it as a tagged
// reference string.
func TaggedReference(registry, repository, tag string) (string, error) {
	named, err := ValidateRegistryReference(registry, repository)
	if err != nil {
		return "", err
	}
	if tag == "" {
		tag = DefaultTag
	}
	tagged, err := reference.WithTag(named, tag)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid tag %q", tag), err)
	}
	return tagged.String(), nil
}

// Push uploads the bundle directory to an OCI registry as a single-layer
// artifact. The layer is a gzipped tar of the directory, so file modes
// survive the round trip.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	ref, err := TaggedReference(opts.Registry, opts.Repository, opts.Tag)
	if err != nil {
		return nil, err
	}

	repo, err := remote.NewRepository(ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to initialize repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP

	client, err := newAuthClient(opts)
	if err != nil {
		return nil, err
	}
	repo.Client = client

	tag := repo.Reference.Reference
	desc, err := push(ctx, opts, repo, tag)
	if err != nil {
		return nil, err
	}

	slog.Info("bundle pushed",
		"reference", ref,
		"digest", desc.Digest.String(),
	)

	return &PushResult{
		Reference: ref,
		Digest:    desc.Digest.String(),
		Size:      desc.Size,
	}, nil
}

// push packs SourceDir into a local file store and copies the tagged
// manifest to dst.
func push(ctx context.Context, opts PushOptions, dst oras.Target, tag string) (ocispec.Descriptor, error) {
	info, err := os.Stat(opts.SourceDir)
	if err != nil {
		return ocispec.Descriptor{}, errors.Wrap(errors.ErrCodeNotFound, "bundle directory not found", err)
	}
	if !info.IsDir() {
		return ocispec.Descriptor{}, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s is not a directory", opts.SourceDir))
	}

	absDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return ocispec.Descriptor{}, errors.Wrap(errors.ErrCodeInternal, "failed to resolve bundle directory", err)
	}

	store, err := file.New(filepath.Dir(absDir))
	if err != nil {
		return ocispec.Descriptor{}, errors.Wrap(errors.ErrCodeInternal, "failed to create file store", err)
	}
	defer store.Close()
	store.TarReproducible = true

	layer, err := store.Add(ctx, filepath.Base(absDir), LayerMediaType, absDir)
	if err != nil {
		return ocispec.Descriptor{}, errors.Wrap(errors.ErrCodeInternal, "failed to pack bundle directory", err)
	}

	annotations := map[string]string{
		ocispec.AnnotationCreated: time.Now().UTC().Format(time.RFC3339),
		ocispec.AnnotationTitle:   filepath.Base(absDir),
	}
	for k, v := range opts.Annotations {
		annotations[k] = v
	}

	manifest, err := oras.PackManifest(ctx, store, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ocispec.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return ocispec.Descriptor{}, errors.Wrap(errors.ErrCodeInternal, "failed to pack manifest", err)
	}

	if err := store.Tag(ctx, manifest, tag); err != nil {
		return ocispec.Descriptor{}, errors.Wrap(errors.ErrCodeInternal, "failed to tag manifest", err)
	}

	desc, err := oras.Copy(ctx, store, tag, dst, tag, oras.DefaultCopyOptions)
	if err != nil {
		return ocispec.Descriptor{}, errors.Wrap(errors.ErrCodeUnavailable, "failed to push bundle", err)
	}
	return desc, nil
}

func newAuthClient(opts PushOptions) (*auth.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for test registries
	}

	client := &auth.Client{
		Client: &http.Client{Transport: retry.NewTransport(transport)},
		Cache:  auth.NewCache(),
	}
	client.SetUserAgent("joshua-bundle")

	if opts.Username != "" || opts.Password != "" {
		client.Credential = auth.StaticCredential(opts.Registry, auth.Credential{
			Username: opts.Username,
			Password: opts.Password,
		})
		return client, nil
	}

	store, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Warn("docker credentials unavailable, pushing anonymously", "error", err)
		return client, nil
	}
	client.Credential = credentials.Credential(store)
	return client, nil
}
