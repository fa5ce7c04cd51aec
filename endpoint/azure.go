package endpoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Azure is a Backend over Azure Blob Storage, grounded directly on the
// teacher's own direct dependency (massifs/go.mod requires
// github.com/Azure/azure-sdk-for-go/sdk/storage/azblob, exercised there by
// massifcommitter.go's Store.Put). Unlike the teacher, this spec has no
// etag/optimistic-concurrency requirement (spec.md §4.6: a chunk path is
// single-writer and immutable once written), so no etag options are used.
type Azure struct {
	client    *azblob.Client
	container string
}

// NewAzure wraps an already-constructed azblob.Client for the given
// container. Credential and endpoint construction is left to the caller
// (an out-of-scope configuration concern per spec.md §1).
func NewAzure(client *azblob.Client, container string) *Azure {
	return &Azure{client: client, container: container}
}

// PutOnce implements Backend.
func (a *Azure) PutOnce(ctx context.Context, path string, data []byte) error {
	_, err := a.client.UploadBuffer(ctx, a.container, path, data, nil)
	if err != nil {
		return fmt.Errorf("azure put %q: %w", path, err)
	}
	return nil
}

// GetOnce implements Backend.
func (a *Azure) GetOnce(ctx context.Context, path string) ([]byte, error) {
	resp, err := a.client.DownloadStream(ctx, a.container, path, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("azure get %q: %w", path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("azure get %q: reading body: %w", path, err)
	}
	return buf.Bytes(), nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.ErrorCode == "BlobNotFound"
}
