package sink

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/merhi-odg/roi-monitor/internal/models"
)

//go:generate go tool mockgen -source blob.go -destination blob_mock_test.go -package sink

// blobUploader is the subset of [*azblob.Client] used by [BlobSink].
type blobUploader interface {
	// UploadBuffer maps to [azblob.Client.UploadBuffer]
	UploadBuffer(ctx context.Context, containerName string, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// BlobSink uploads reports to an Azure Blob Storage container.
type BlobSink struct {
	client    blobUploader
	container string
	prefix    string
}

// NewBlobSink creates a [BlobSink] for the storage account at accountURL,
// authenticating with the default Azure credential chain. Blobs are named
// <prefix>/<name>.json.
func NewBlobSink(accountURL, container, prefix string) (*BlobSink, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating Azure credential: %w", err)
	}

	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client for %s: %w", accountURL, err)
	}

	return newBlobSink(client, container, prefix), nil
}

func newBlobSink(client blobUploader, container, prefix string) *BlobSink {
	return &BlobSink{client: client, container: container, prefix: prefix}
}

func (s *BlobSink) Publish(ctx context.Context, name string, report *models.MetricsReport) error {
	data, err := Encode(report)
	if err != nil {
		return err
	}

	blobName := path.Join(s.prefix, FileName(name))
	_, err = s.client.UploadBuffer(ctx, s.container, blobName, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr("application/json"),
		},
		Metadata: map[string]*string{
			"test_id": to.Ptr(models.ActualROITestID),
		},
	})
	if err != nil {
		return fmt.Errorf("uploading %s to container %s: %w", blobName, s.container, err)
	}

	slog.Debug("Uploaded report", "container", s.container, "blob", blobName)
	return nil
}
