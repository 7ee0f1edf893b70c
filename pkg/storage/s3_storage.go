package storage

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/defaults"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// S3Storage implements the Storage interface for interacting with AWS S3.
type S3Storage struct {
	Config  Config
	Session *session.Session
}

// NewS3Storage creates a new S3Storage with a new aws.Session.
func NewS3Storage(config Config) S3Storage {
	return S3Storage{
		Config:  config,
		Session: newAWSSession(config),
	}
}

// NewS3StorageWithSession returns a new S3Storage with a given AWS Session.
func NewS3StorageWithSession(config Config, session *session.Session) S3Storage {
	return S3Storage{
		Config:  config,
		Session: session,
	}
}

// Write writes the data to the key in the S3 Bucket, with Options applied.
func (s S3Storage) Write(ctx context.Context, key string, body []byte, options *Options) error {
	svc := s3.New(s.Session)

	poi := s3.PutObjectInput{
		Bucket:      aws.String(s.Config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType(key)),
	}

	if options != nil && options.TTL > 0 {
		expiry := time.Now().Add(time.Duration(options.TTL) * time.Second)
		poi.Expires = &expiry
	}

	if _, err := svc.PutObjectWithContext(ctx, &poi); err != nil {
		return errors.Wrapf(err, "write %s", key)
	}

	return nil
}

// Read reads the data from the S3 Bucket.
func (s S3Storage) Read(ctx context.Context, key string) ([]byte, error) {
	svc := s3.New(s.Session)

	document, err := svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %s", key)
	}
	defer document.Body.Close()

	b, err := ioutil.ReadAll(document.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	return b, nil
}

// Remove removes the object stored at key, in the S3 Bucket.
func (s S3Storage) Remove(ctx context.Context, key string) error {
	svc := s3.New(s.Session)

	_, err := svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return errors.Wrapf(err, "delete %s", key)
	}

	return nil
}

// List returns the keys directly under path.
func (s S3Storage) List(ctx context.Context, path string) ([]string, error) {
	svc := s3.New(s.Session)

	prefix := path
	if len(prefix) > 0 && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.Config.Bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}

	var keys []string
	err := svc.ListObjectsV2PagesWithContext(ctx, input,
		func(out *s3.ListObjectsV2Output, last bool) bool {
			for _, o := range out.Contents {
				keys = append(keys, aws.StringValue(o.Key))
			}
			return true
		})
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", path)
	}

	return keys, nil
}

func isNotFound(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code() == s3.ErrCodeNoSuchKey
	}
	return false
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".json"):
		return "application/json"
	case strings.HasSuffix(key, ".txt"):
		return "text/plain"
	}
	return "application/octet-stream"
}

// newAWSSession creates a new AWS Session from the credentials in the
// Config.
func newAWSSession(config Config) *session.Session {
	// Get the default cred chain
	awsDefaults := defaults.Get()
	defaultCredProviders := defaults.CredProviders(awsDefaults.Config, awsDefaults.Handlers)

	// Static creds take precedence over the defaults
	staticCreds := &credentials.StaticProvider{Value: credentials.Value{
		AccessKeyID:     config.AccessKey,
		SecretAccessKey: config.Secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
	}}

	customCredProviders := append([]credentials.Provider{staticCreds}, defaultCredProviders...)
	creds := credentials.NewChainCredentials(customCredProviders)

	awsConfig := aws.NewConfig().
		WithCredentials(creds).
		WithMaxRetries(config.MaxRetries)

	if len(config.Region) > 0 {
		awsConfig = awsConfig.WithRegion(config.Region)
	}

	return session.Must(session.NewSession(awsConfig))
}
