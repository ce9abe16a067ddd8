package utils

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: make(map[string][]byte)}
}

func (m *memoryObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (m *memoryObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestObjectStoreJSON(t *testing.T) {
	ctx := context.Background()
	api := newMemoryObjects()
	store := NewObjectStore(api, "scores")
	assert.Equal(t, "scores", store.Bucket())

	var got map[string]int
	assert.ErrorIs(t, store.GetJSON(ctx, "missing.json", &got), ErrObjectNotFound)

	require.NoError(t, store.PutJSON(ctx, "a.json", map[string]int{"easy": 3}))
	assert.JSONEq(t, `{"easy":3}`, string(api.objects["a.json"]))

	require.NoError(t, store.GetJSON(ctx, "a.json", &got))
	assert.Equal(t, map[string]int{"easy": 3}, got)

	require.NoError(t, store.Delete(ctx, "a.json"))
	assert.ErrorIs(t, store.GetJSON(ctx, "a.json", &got), ErrObjectNotFound)
}

func TestObjectStoreErrors(t *testing.T) {
	ctx := context.Background()
	api := newMemoryObjects()
	store := NewObjectStore(api, "scores")

	api.objects["bad.json"] = []byte("{not json")
	var v map[string]any
	err := store.GetJSON(ctx, "bad.json", &v)
	assert.ErrorContains(t, err, "failed to decode bad.json")
	assert.False(t, errors.Is(err, ErrObjectNotFound))

	api.putErr = errors.New("boom")
	assert.ErrorContains(t, store.PutJSON(ctx, "x.json", 1), "boom")
}
