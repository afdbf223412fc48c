// Copyright 2023 Greenmask
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package s3

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zessin/relational-to-graph/internal/storages"
)

type s3ServiceMock struct {
	s3iface.S3API
	mock.Mock
}

func (m *s3ServiceMock) GetObjectWithContext(
	ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option,
) (*s3.GetObjectOutput, error) {
	args := m.Called(aws.StringValue(input.Key))
	if out := args.Get(0); out != nil {
		return out.(*s3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *s3ServiceMock) HeadObjectWithContext(
	ctx aws.Context, input *s3.HeadObjectInput, opts ...request.Option,
) (*s3.HeadObjectOutput, error) {
	args := m.Called(aws.StringValue(input.Key))
	return &s3.HeadObjectOutput{}, args.Error(0)
}

func (m *s3ServiceMock) DeleteObjectsWithContext(
	ctx aws.Context, input *s3.DeleteObjectsInput, opts ...request.Option,
) (*s3.DeleteObjectsOutput, error) {
	var keys []string
	for _, o := range input.Delete.Objects {
		keys = append(keys, aws.StringValue(o.Key))
	}
	args := m.Called(keys)
	return &s3.DeleteObjectsOutput{}, args.Error(0)
}

type uploaderMock struct {
	uploaded map[string][]byte
	class    string
}

func (u *uploaderMock) Upload(input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (
	*s3manager.UploadOutput, error,
) {
	return u.UploadWithContext(context.Background(), input, opts...)
}

func (u *uploaderMock) UploadWithContext(
	ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader),
) (*s3manager.UploadOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	u.uploaded[aws.StringValue(input.Key)] = data
	u.class = aws.StringValue(input.StorageClass)
	return &s3manager.UploadOutput{}, nil
}

func newTestStorage(service *s3ServiceMock, uploader *uploaderMock) *Storage {
	cfg := NewConfig()
	cfg.Bucket = "graphs"
	cfg.Prefix = "rtg"
	return newStorage(cfg, service, uploader)
}

func TestStorage_PutObject(t *testing.T) {
	uploader := &uploaderMock{uploaded: map[string][]byte{}}
	st := newTestStorage(&s3ServiceMock{}, uploader)
	assert.Equal(t, "rtg/", st.GetCwd())

	require.NoError(t, st.PutObject(context.Background(), "graph.svg", bytes.NewBufferString("<svg/>")))
	assert.Equal(t, []byte("<svg/>"), uploader.uploaded["rtg/graph.svg"])
	assert.Equal(t, defaultStorageClass, uploader.class)
}

func TestStorage_Exists(t *testing.T) {
	service := &s3ServiceMock{}
	service.On("HeadObjectWithContext", "rtg/graph.svg").Return(nil)
	service.On("HeadObjectWithContext", "rtg/missing.svg").
		Return(awserr.New(awsErrorCodeNotFound, "not found", nil))
	service.On("HeadObjectWithContext", "rtg/denied.svg").
		Return(awserr.New("AccessDenied", "denied", nil))
	st := newTestStorage(service, &uploaderMock{})

	exists, err := st.Exists(context.Background(), "graph.svg")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = st.Exists(context.Background(), "missing.svg")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = st.Exists(context.Background(), "denied.svg")
	require.ErrorContains(t, err, "error getting object info")
	service.AssertExpectations(t)
}

func TestStorage_GetObject(t *testing.T) {
	service := &s3ServiceMock{}
	service.On("GetObjectWithContext", "rtg/graph.dot").
		Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString("digraph G {\n}\n"))}, nil)
	service.On("GetObjectWithContext", "rtg/missing.dot").
		Return(nil, awserr.New(awsErrorCodeNoSuchKey, "no such key", nil))
	st := newTestStorage(service, &uploaderMock{})

	r, err := st.GetObject(context.Background(), "graph.dot")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "digraph G {\n}\n", string(data))

	_, err = st.GetObject(context.Background(), "missing.dot")
	require.ErrorIs(t, err, storages.ErrFileNotFound)
}

func TestStorage_Delete(t *testing.T) {
	service := &s3ServiceMock{}
	service.On("DeleteObjectsWithContext", []string{"rtg/graph.svg", "rtg/graph.dot"}).Return(nil)
	st := newTestStorage(service, &uploaderMock{})

	require.NoError(t, st.Delete(context.Background(), "graph.svg", "graph.dot"))
	service.AssertExpectations(t)
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewConfig()
	require.ErrorContains(t, cfg.Validate(), "bucket")

	cfg.Bucket = "graphs"
	require.NoError(t, cfg.Validate())

	cfg.RoleArn = "arn:aws:iam::123456789012:role/rtg"
	require.ErrorContains(t, cfg.Validate(), "session name")
}
