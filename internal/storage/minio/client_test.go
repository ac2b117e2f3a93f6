package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr      error
	putKey      string
	putSize     int64
	putOpts     minioLib.PutObjectOptions
	putContents []byte

	getRC  io.ReadCloser
	getErr error

	statErr error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, name string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = name
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	f.putKey, f.putSize, f.putOpts = key, size, opts
	f.putContents, _ = io.ReadAll(r)
	return minioLib.UploadInfo{Key: key, Size: size}, nil
}

func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}

func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{}, f.statErr
}

func TestNewClientWithAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}
		c, err := NewClientWithAPI(ctx, api, "archive")
		require.NoError(t, err)
		assert.Equal(t, "archive", c.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("creates bucket", func(t *testing.T) {
		api := &fakeMinio{}
		_, err := NewClientWithAPI(ctx, api, "archive")
		require.NoError(t, err)
		assert.Equal(t, "archive", api.madeBucket)
	})

	t.Run("bucket check error", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{bucketExistsErr: errors.New("boom")}, "archive")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ensure bucket exists")
	})

	t.Run("make bucket error", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{makeBucketErr: errors.New("fail")}, "archive")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create bucket")
	})
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, "recoveries/alice/1.json", bytes.NewReader([]byte(`{}`)), 2)
		require.NoError(t, err)
		assert.Equal(t, "recoveries/alice/1.json", api.putKey)
		assert.Equal(t, int64(2), api.putSize)
		assert.Equal(t, contentTypeJSON, api.putOpts.ContentType)
		assert.Equal(t, []byte(`{}`), api.putContents)
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{putErr: errors.New("put-fail")}, bucket: "b"}
		err := c.Upload(ctx, "k", bytes.NewReader(nil), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := &Client{api: &fakeMinio{getRC: io.NopCloser(bytes.NewReader([]byte("abc")))}, bucket: "b"}
		rc, err := c.Download(ctx, "k")
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{getErr: errors.New("get-fail")}, bucket: "b"}
		rc, err := c.Download(ctx, "k")
		assert.Nil(t, rc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "b"}
		ok, err := c.Exists(ctx, "k")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}, bucket: "b"}
		ok, err := c.Exists(ctx, "absent")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: errors.New("stat-fail")}, bucket: "b"}
		ok, err := c.Exists(ctx, "k")
		assert.False(t, ok)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat object")
	})
}
