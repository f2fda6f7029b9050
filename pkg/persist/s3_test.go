package persist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory double for the S3API interface.
type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, errors.New("NoSuchKey: The specified key does not exist")
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	s := NewS3Store(client, "bucket", WithS3Prefix("snapshots/"))

	require.NoError(t, s.Save(ctx, "counter", []byte(`{"count":7}`)))
	assert.Contains(t, client.objects, "snapshots/counter", "object keys carry the prefix")

	data, err := s.Load(ctx, "counter")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":7}`, string(data))
}

func TestS3StoreMiss(t *testing.T) {
	s := NewS3Store(newFakeS3(), "bucket")

	_, err := s.Load(context.Background(), "nope")
	assert.True(t, IsNotFound(err))
}

func TestS3StoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewS3Store(newFakeS3(), "bucket")

	require.NoError(t, s.Save(ctx, "counter", []byte("{}")))
	require.NoError(t, s.Delete(ctx, "counter"))

	_, err := s.Load(ctx, "counter")
	assert.True(t, IsNotFound(err))
}

func TestS3StoreClosed(t *testing.T) {
	s := NewS3Store(newFakeS3(), "bucket")
	require.NoError(t, s.Close())

	assert.ErrorContains(t, s.Save(context.Background(), "k", nil), "E061")
}
