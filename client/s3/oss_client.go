package s3

import (
	"io"
	"os"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

var (
	AttachmentBucket *oss.Bucket

	GetObjectFunc func(string, ...oss.Option) (io.ReadCloser, error)
	PutObjectFunc func(string, io.Reader, ...oss.Option) error
	DelObjectFunc func(string) error
)

func Bootstrap() {
	var err error
	AttachmentBucket, err = BuildBucketFromEnv()
	if err != nil {
		panic(err)
	}

	GetObjectFunc = GetObject
	PutObjectFunc = PutObject
	DelObjectFunc = DelObject
}

func BuildBucketFromEnv() (*oss.Bucket, error) {
	endpoint := os.ExpandEnv(os.Getenv("OSS_ENDPOINT"))
	if endpoint == "" {
		endpoint = "dummy"
	}
	accessKey := os.Getenv("OSS_ACCESS_KEY")
	secretKey := os.Getenv("OSS_SECRET_KEY")
	bucket := os.Getenv("OSS_BUCKET")
	if bucket == "" {
		bucket = "wagondepot"
	}
	return BuildBucket(endpoint, accessKey, secretKey, bucket)
}

func BuildBucket(endpoint, accesskey, secretKey, bucketName string) (*oss.Bucket, error) {
	cli, err := oss.New(endpoint, accesskey, secretKey, oss.HTTPClient(nil))
	if err != nil {
		return nil, err
	}

	bucket, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

func GetObject(key string, opts ...oss.Option) (io.ReadCloser, error) {
	return AttachmentBucket.GetObject(key, opts...)
}

func PutObject(key string, r io.Reader, opts ...oss.Option) error {
	return AttachmentBucket.PutObject(key, r, opts...)
}

func DelObject(key string) error {
	return AttachmentBucket.DeleteObject(key)
}
