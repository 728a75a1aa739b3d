package mongo

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/blake2b"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

const defaultBucket = "attachments"

// BlobStore implements ports.BlobStore on a GridFS bucket. Files are keyed by
// their stored name; content type, checksum and original name live in the
// file's metadata.
type BlobStore struct {
	db        *mongo.Database
	bucket    string
	publicURL string
}

func NewBlobStore(db *mongo.Database, bucket, publicURL string) *BlobStore {
	if bucket == "" {
		bucket = defaultBucket
	}
	return &BlobStore{db: db, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// open returns a bucket handle bound to ctx's deadline. Deadlines are
// per-handle state, so each operation gets its own.
func (s *BlobStore) open(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.SetReadDeadline(deadline)
		_ = b.SetWriteDeadline(deadline)
	}
	return b, nil
}

// Upload streams content into GridFS while hashing it with BLAKE2b-256.
func (s *BlobStore) Upload(ctx context.Context, in ports.BlobUpload) (*ports.BlobObject, error) {
	b, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	counter := &countingReader{r: io.TeeReader(in.Content, hasher)}

	meta := bson.D{
		{Key: "content_type", Value: contentTypeOrDefault(in.ContentType)},
		{Key: "original_name", Value: domain.OriginalFileName(in.Name)},
	}
	id, err := b.UploadFromStream(in.Name, counter, options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return nil, fmt.Errorf("gridfs upload: %w", err)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	_, err = b.GetFilesCollection().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"metadata.checksum": sum}},
	)
	if err != nil {
		return nil, fmt.Errorf("gridfs checksum: %w", err)
	}

	return &ports.BlobObject{
		Name:       in.Name,
		URL:        s.url(in.Name),
		Size:       counter.n,
		Checksum:   sum,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// Download opens the newest revision stored under name.
func (s *BlobStore) Download(ctx context.Context, name string) (*ports.BlobDownload, error) {
	b, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	stream, err := b.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("gridfs download: %w", err)
	}

	file := stream.GetFile()
	dl := &ports.BlobDownload{
		Content:     stream,
		ContentType: "application/octet-stream",
		FileName:    domain.OriginalFileName(name),
		Size:        file.Length,
	}
	if len(file.Metadata) > 0 {
		if v, ok := file.Metadata.Lookup("content_type").StringValueOK(); ok && v != "" {
			dl.ContentType = v
		}
		if v, ok := file.Metadata.Lookup("original_name").StringValueOK(); ok && v != "" {
			dl.FileName = v
		}
		if v, ok := file.Metadata.Lookup("checksum").StringValueOK(); ok {
			dl.Checksum = v
		}
	}
	return dl, nil
}

// Delete removes every revision stored under name.
func (s *BlobStore) Delete(ctx context.Context, name string) (bool, error) {
	b, err := s.open(ctx)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := b.FindContext(ctx, bson.M{"filename": name})
	if err != nil {
		return false, fmt.Errorf("gridfs find: %w", err)
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return false, fmt.Errorf("gridfs find: %w", err)
	}

	for _, f := range files {
		if err := b.DeleteContext(ctx, f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return false, fmt.Errorf("gridfs delete: %w", err)
		}
	}
	return len(files) > 0, nil
}

func (s *BlobStore) url(name string) string {
	return s.publicURL + "/" + url.PathEscape(name)
}

func contentTypeOrDefault(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
