package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := putObject
	origPresign := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		putObject = origPut
		presignGetObject = origPresign
	})
}

func TestNewS3Archiver_AppliesOptions(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minio", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	a, err := NewS3Archiver(context.Background(), Options{
		AccessKey:    "minio",
		SecretKey:    "minio123",
		Region:       "eu-central-1",
		Bucket:       "exports",
		BaseEndpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, DefaultURLTTL, a.urlTTL)
}

func TestNewS3Archiver_Errors(t *testing.T) {
	restoreSeams(t)

	_, err := NewS3Archiver(context.Background(), Options{Region: "us-east-1"})
	assert.ErrorContains(t, err, "bucket")

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}
	_, err = NewS3Archiver(context.Background(), Options{Bucket: "b"})
	assert.ErrorContains(t, err, "load aws config: no profile")
}

func newTestArchiver() *S3Archiver {
	return &S3Archiver{client: &s3.Client{}, presign: &s3.PresignClient{}, bucket: "exports", urlTTL: 5 * time.Minute}
}

func TestPut_UploadsAndPresigns(t *testing.T) {
	restoreSeams(t)

	var gotBody []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		assert.Equal(t, "exports", aws.ToString(in.Bucket))
		assert.Equal(t, "exports/contacts/a.json", aws.ToString(in.Key))
		assert.Equal(t, "application/json", aws.ToString(in.ContentType))
		assert.Equal(t, int64(2), aws.ToInt64(in.ContentLength))
		gotBody, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 5*time.Minute, po.Expires)
		assert.Equal(t, "exports/contacts/a.json", aws.ToString(in.Key))
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/exports/contacts/a.json?sig=1"}, nil
	}

	url, err := newTestArchiver().Put(context.Background(), "exports/contacts/a.json", []byte("[]"), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/exports/contacts/a.json?sig=1", url)
	assert.Equal(t, []byte("[]"), gotBody)
}

func TestPut_Errors(t *testing.T) {
	restoreSeams(t)

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}
	_, err := newTestArchiver().Put(context.Background(), "k", nil, "application/json")
	assert.ErrorContains(t, err, "put object k: access denied")

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}
	_, err = newTestArchiver().Put(context.Background(), "k", nil, "application/json")
	assert.ErrorContains(t, err, "presign k: sign failed")
}
