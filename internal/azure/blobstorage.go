package azure

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/allsafeASM/portgroup/internal/common"
	"github.com/allsafeASM/portgroup/internal/config"
	"github.com/google/uuid"
	"github.com/projectdiscovery/gologger"
)

// BlobStorageClient wraps Azure Blob Storage operations
type BlobStorageClient struct {
	client        *azblob.Client
	containerName string
	prefix        string
	runID         string
}

// NewBlobStorageClient creates a new Blob Storage client.
// Uploads of one client share a run id so the files of an invocation land
// under the same folder.
func NewBlobStorageClient(connectionString, containerName, prefix string) (*BlobStorageClient, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob storage client: %w", err)
	}

	return &BlobStorageClient{
		client:        client,
		containerName: containerName,
		prefix:        prefix,
		runID:         uuid.NewString(),
	}, nil
}

// RunID returns the id used in the names of uploaded blobs
func (b *BlobStorageClient) RunID() string {
	return b.runID
}

// BlobName builds the blob name of an uploaded result file,
// e.g. "portgroup/<run id>/80_tcp.txt"
func BlobName(prefix, runID, file string) string {
	return path.Join(prefix, runID, filepath.Base(file))
}

// InputBlobName strips the az:// marker from an input name
func InputBlobName(input string) string {
	return strings.TrimPrefix(input, config.BlobInputPrefix)
}

// UploadFiles uploads local result files and returns their blob names
func (b *BlobStorageClient) UploadFiles(ctx context.Context, files []string) ([]string, error) {
	var uploaded []string

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return uploaded, common.NewIOError(fmt.Sprintf("failed to read %s for upload", file), err)
		}

		blobName := BlobName(b.prefix, b.runID, file)
		_, err = b.client.UploadBuffer(ctx, b.containerName, blobName, data, &azblob.UploadBufferOptions{})
		if err != nil {
			return uploaded, common.NewStorageError(fmt.Sprintf("failed to upload %s to blob storage", file), err)
		}

		gologger.Verbose().Msgf("Uploaded %s to blob: %s/%s", file, b.containerName, blobName)
		uploaded = append(uploaded, blobName)
	}

	gologger.Info().Msgf("Uploaded %d files to %s/%s", len(uploaded), b.containerName, path.Join(b.prefix, b.runID))
	return uploaded, nil
}

// OpenReport opens a scan report stored in the container.
// The caller closes the returned reader.
func (b *BlobStorageClient) OpenReport(ctx context.Context, input string) (io.ReadCloser, error) {
	blobName := InputBlobName(input)

	response, err := b.client.DownloadStream(ctx, b.containerName, blobName, nil)
	if err != nil {
		return nil, classifyDownloadError(blobName, err)
	}

	gologger.Debug().Msgf("Reading scan report from blob: %s/%s", b.containerName, blobName)
	return response.Body, nil
}

// ListReports lists the blob names under prefix
func (b *BlobStorageClient) ListReports(ctx context.Context, prefix string) ([]string, error) {
	var blobNames []string

	pager := b.client.NewListBlobsFlatPager(b.containerName, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, common.NewStorageError("failed to list blobs", err)
		}

		for _, blob := range page.Segment.BlobItems {
			blobNames = append(blobNames, *blob.Name)
		}
	}

	return blobNames, nil
}

// classifyDownloadError reports a missing blob as not_found so the report is
// skipped; any other failure is a storage error
func classifyDownloadError(blobName string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return common.NewNotFoundError(fmt.Sprintf("blob %s not found", blobName), err)
	}
	return common.NewStorageError(fmt.Sprintf("failed to download %s from blob storage", blobName), err)
}
