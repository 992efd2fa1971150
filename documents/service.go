package documents

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/signetdash/signet/apiclient"
)

// Service is the documents consumer of the authorized API client. It reaches
// the backend only through the client's sanctioned verbs and applies the
// list-shape normalization at this boundary.
type Service struct {
	client *apiclient.Client
}

// NewService creates a documents Service on top of the authorized client.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List fetches all documents visible to the current session.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	envelope, err := s.client.Get(ctx, "/documents")
	if err != nil {
		return nil, errors.Wrap(err, "[Service.List] get documents")
	}
	if !envelope.Success {
		return nil, errors.Wrap(envelope.Err(), "[Service.List]")
	}
	return NormalizeList(envelope.Data), nil
}

// Create registers a new document.
func (s *Service) Create(ctx context.Context, doc Document) (*Document, error) {
	envelope, err := s.client.Post(ctx, "/documents", doc)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Create] post document")
	}
	if !envelope.Success {
		return nil, errors.Wrap(envelope.Err(), "[Service.Create]")
	}
	var created Document
	if err := envelope.DecodeData(&created); err != nil {
		return nil, errors.Wrap(err, "[Service.Create] decode document")
	}
	return &created, nil
}

// Replace overwrites an existing document.
func (s *Service) Replace(ctx context.Context, id string, doc Document) (*Document, error) {
	envelope, err := s.client.Put(ctx, fmt.Sprintf("/documents/%s", id), doc)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Replace] put document")
	}
	if !envelope.Success {
		return nil, errors.Wrap(envelope.Err(), "[Service.Replace]")
	}
	var replaced Document
	if err := envelope.DecodeData(&replaced); err != nil {
		return nil, errors.Wrap(err, "[Service.Replace] decode document")
	}
	return &replaced, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, id string) error {
	envelope, err := s.client.Delete(ctx, fmt.Sprintf("/documents/%s", id))
	if err != nil {
		return errors.Wrap(err, "[Service.Delete] delete document")
	}
	if !envelope.Success {
		return errors.Wrap(envelope.Err(), "[Service.Delete]")
	}
	return nil
}

// Upload sends a document file plus its metadata as one multipart request.
func (s *Service) Upload(ctx context.Context, filename string, content io.Reader, metadata map[string]string) (*Document, error) {
	envelope, err := s.client.UploadBinary(ctx, "/documents/upload", filename, content, metadata)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Upload] upload document")
	}
	if !envelope.Success {
		return nil, errors.Wrap(envelope.Err(), "[Service.Upload]")
	}
	var uploaded Document
	if err := envelope.DecodeData(&uploaded); err != nil {
		return nil, errors.Wrap(err, "[Service.Upload] decode document")
	}
	return &uploaded, nil
}

// Download fetches the raw file content of a document.
func (s *Service) Download(ctx context.Context, id string) ([]byte, error) {
	envelope, err := s.client.Get(ctx, fmt.Sprintf("/documents/%s/download", id),
		apiclient.WithResponseMode(apiclient.ModeBinary))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Download] get document content")
	}
	if !envelope.Success {
		return nil, errors.Wrap(envelope.Err(), "[Service.Download]")
	}
	return envelope.Raw, nil
}
