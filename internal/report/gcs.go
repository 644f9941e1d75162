package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSStore keeps one object per date in a Cloud Storage bucket under
// the reports/ prefix.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSStore{
		client: client,
		bucket: bucket,
		prefix: "reports/",
	}, nil
}

func (s *GCSStore) object(date string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + date + ".json")
}

func (s *GCSStore) Get(ctx context.Context, date string) ([]byte, error) {
	reader, err := s.object(date).NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening report object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading report object: %w", err)
	}
	return data, nil
}

func (s *GCSStore) Put(ctx context.Context, date string, data []byte) error {
	writer := s.object(date).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing report object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing report object: %w", err)
	}
	return nil
}

func (s *GCSStore) Delete(ctx context.Context, date string) error {
	if err := s.object(date).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("deleting report object: %w", err)
	}
	return nil
}

func (s *GCSStore) Dates(ctx context.Context) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: s.prefix})

	var dates []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing report objects: %w", err)
		}

		name := strings.TrimPrefix(attrs.Name, s.prefix)
		date := strings.TrimSuffix(name, ".json")
		if ValidateDate(date) != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
