package kvstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory bucket.
type fakeS3 struct {
	objects map[string][]byte
	puts    []*s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFile(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemory(),
		"file":   file,
		"s3":     NewS3(newFakeS3(), "bucket", "storage"),
	}
}

func TestStores_GetMissingKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), KeyPatients)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStores_PutThenGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, KeyDiagnoses, []byte(`[{"id":1}]`)))
			require.NoError(t, s.Put(ctx, KeyDiagnoses, []byte(`[]`)))

			got, err := s.Get(ctx, KeyDiagnoses)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
			assert.NoError(t, s.Ping(ctx))
			assert.Equal(t, name, s.Backend())
		})
	}
}

func TestStores_RejectInvalidKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Put(ctx, "../etc/passwd", []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidKey)
			_, err = s.Get(ctx, "")
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestFile_WritesUnderDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewFile(fs, "/var/zuro")
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), KeyAffiliateLink, []byte(`"https://x"`)))

	data, err := afero.ReadFile(fs, "/var/zuro/affiliateLink.json")
	require.NoError(t, err)
	assert.Equal(t, `"https://x"`, string(data))

	exists, err := afero.Exists(fs, "/var/zuro/affiliateLink.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temp file should be renamed away")
}

func TestS3_ObjectLayout(t *testing.T) {
	fake := newFakeS3()
	s := NewS3(fake, "bucket", "storage")

	require.NoError(t, s.Put(context.Background(), KeyPatients, []byte(`[]`)))

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "storage/patients.json", aws.ToString(fake.puts[0].Key))
	assert.Equal(t, "bucket", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "application/json", aws.ToString(fake.puts[0].ContentType))
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte(`{"a":1}`)
	require.NoError(t, m.Put(context.Background(), "k", buf))
	buf[2] = 'b'

	got, err := m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
	assert.Equal(t, 1, m.Writes())
}

type sample struct {
	Name string `json:"name"`
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var out []sample
	found, err := GetJSON(ctx, m, "items", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, PutJSON(ctx, m, "items", []sample{{Name: "a"}, {Name: "b"}}))

	found, err = GetJSON(ctx, m, "items", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []sample{{Name: "a"}, {Name: "b"}}, out)
}

func TestGetJSON_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, "items", []byte(`{not json`)))

	var out []sample
	_, err := GetJSON(ctx, m, "items", &out)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
