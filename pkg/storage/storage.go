// Package storage provides the object storage gateway backed by Azure Blob Storage.
// Each user owns one container; uploaded files are blobs inside it.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/lifecycle"
)

// System manages the remote object store and lifecycle coordination.
type System interface {
	// Start registers a startup hook that verifies the storage account is reachable.
	Start(lc *lifecycle.Coordinator) error
	// CreateContainer creates the named container and returns its reference.
	// An already existing container is treated as success.
	CreateContainer(ctx context.Context, name string) (string, error)
	// CreateObject uploads data as a new object inside container.
	CreateObject(ctx context.Context, container, filename string, data []byte, contentType string) (ObjectRef, error)
	// UpdateObject overwrites an existing object in place, keeping its reference.
	// Returns ErrNotFound if the object no longer exists.
	UpdateObject(ctx context.Context, ref ObjectRef, data []byte, contentType string) (ObjectRef, error)
	// Delete removes an object. A missing object is not an error.
	Delete(ctx context.Context, ref ObjectRef) error
	// Download returns a stream for the object. The caller must close Body.
	Download(ctx context.Context, ref ObjectRef) (*Blob, error)
	// Link returns the shareable view URL for ref.
	Link(ref ObjectRef) string
}

// Blob is a downloaded object stream with its content metadata.
type Blob struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

type azure struct {
	client  *azblob.Client
	viewURL string
	logger  *slog.Logger
}

// New creates a storage system from the given configuration.
// A connection string takes precedence; otherwise the account URL is used
// with the default Azure credential chain. No request is made until Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:  client,
		viewURL: strings.TrimSuffix(cfg.ViewBaseURL, "/"),
		logger:  logger.With("system", "storage"),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default credential: %w", err)
	}
	return azblob.NewClient(cfg.AccountURL, cred, nil)
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		if _, err := a.client.ServiceClient().GetProperties(lc.Context(), nil); err != nil {
			a.logger.Error("storage account check failed", "error", err)
			return
		}
		a.logger.Info("storage account reachable", "url", a.client.URL())
	})

	return nil
}

func (a *azure) CreateContainer(ctx context.Context, name string) (string, error) {
	if err := ValidateContainerName(name); err != nil {
		return "", err
	}

	_, err := a.client.CreateContainer(ctx, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Warn("container already exists", "container", name)
			return name, nil
		}
		return "", fmt.Errorf("create container %s: %w", name, err)
	}

	a.logger.Info("container created", "container", name)
	return name, nil
}

func (a *azure) CreateObject(
	ctx context.Context,
	container, filename string,
	data []byte,
	contentType string,
) (ObjectRef, error) {
	ref := ObjectRef{
		Container: container,
		Object:    fmt.Sprintf("%s-%s", uuid.New(), sanitizeFilename(filename)),
	}
	if err := ref.Validate(); err != nil {
		return ObjectRef{}, err
	}

	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}

	if _, err := a.client.UploadBuffer(ctx, ref.Container, ref.Object, data, opts); err != nil {
		return ObjectRef{}, fmt.Errorf("upload object %s: %w", ref, err)
	}

	return ref, nil
}

func (a *azure) UpdateObject(
	ctx context.Context,
	ref ObjectRef,
	data []byte,
	contentType string,
) (ObjectRef, error) {
	if err := ref.Validate(); err != nil {
		return ObjectRef{}, err
	}

	ifExists := azcore.ETagAny
	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
		AccessConditions: &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{IfMatch: &ifExists},
		},
	}

	if _, err := a.client.UploadBuffer(ctx, ref.Container, ref.Object, data, opts); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ConditionNotMet, bloberror.ContainerNotFound) {
			return ObjectRef{}, ErrNotFound
		}
		return ObjectRef{}, fmt.Errorf("update object %s: %w", ref, err)
	}

	return ref, nil
}

func (a *azure) Delete(ctx context.Context, ref ObjectRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	if _, err := a.client.DeleteBlob(ctx, ref.Container, ref.Object, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil
		}
		return fmt.Errorf("delete object %s: %w", ref, err)
	}
	return nil
}

func (a *azure) Download(ctx context.Context, ref ObjectRef) (*Blob, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, ref.Container, ref.Object, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download object %s: %w", ref, err)
	}

	result := &Blob{
		Body:        resp.Body,
		ContentType: "application/octet-stream",
	}
	if resp.ContentType != nil {
		result.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		result.ContentLength = *resp.ContentLength
	}

	return result, nil
}

func (a *azure) Link(ref ObjectRef) string {
	return BuildLink(a.viewURL, ref)
}

// BuildLink formats the shareable view URL for ref under base.
func BuildLink(base string, ref ObjectRef) string {
	q := url.Values{}
	q.Set("container", ref.Container)
	q.Set("object", ref.Object)
	return strings.TrimSuffix(base, "/") + "/view?" + q.Encode()
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
