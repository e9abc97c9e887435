package attachment

import (
	"io"
	"os"
	"path/filepath"
	"wagondepot/bizerror"
	"wagondepot/client/s3"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// BlobStore holds attachment payloads. Records in the database only carry
// the generated filename, the payload lives here.
type BlobStore interface {
	Put(filename string, r io.Reader) error
	Get(filename string) (io.ReadCloser, error)
	Delete(filename string) error
}

var ActiveBlobStore BlobStore

// Bootstrap selects the object-storage backend when OSS_ENDPOINT is set and
// falls back to a local directory (UPLOAD_DIR, default "uploads") otherwise.
func Bootstrap() {
	if os.Getenv("OSS_ENDPOINT") != "" {
		s3.Bootstrap()
		ActiveBlobStore = &ossStore{}
		return
	}

	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(err)
	}
	ActiveBlobStore = &diskStore{dir: dir}
}

type diskStore struct {
	dir string
}

func (s *diskStore) Put(filename string, r io.Reader) error {
	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (s *diskStore) Get(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filename))
	if os.IsNotExist(err) {
		return nil, bizerror.ErrNotFound
	}
	return f, err
}

func (s *diskStore) Delete(filename string) error {
	err := os.Remove(filepath.Join(s.dir, filename))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

type ossStore struct {
}

func (s *ossStore) Put(filename string, r io.Reader) error {
	return s3.PutObjectFunc("attachments/"+filename, r)
}

func (s *ossStore) Get(filename string) (io.ReadCloser, error) {
	r, err := s3.GetObjectFunc("attachments/" + filename)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *ossStore) Delete(filename string) error {
	return s3.DelObjectFunc("attachments/" + filename)
}
