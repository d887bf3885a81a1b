package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	s3iface.S3API
	puts []*s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

// 1x1 transparent PNG.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89\x00\x00\x00\rIDATx\x9cc\xf8\x0f\x00\x00\x01\x01\x00\x05\x18\xd8N\x00\x00\x00\x00IEND\xaeB`\x82")

func TestS3Uploader(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, "shop-media", "https://cdn.shop.example/")

	url, err := u.Upload(context.Background(), "products/a.png", "image/png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.shop.example/products/a.png", url)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "shop-media", aws.StringValue(fake.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.StringValue(fake.puts[0].ContentType))
	assert.Equal(t, pngBytes, fake.body)

	fake.err = errors.New("AccessDenied")
	_, err = u.Upload(context.Background(), "products/b.png", "image/png", bytes.NewReader(pngBytes))
	assert.ErrorContains(t, err, "s3://shop-media/products/b.png")
}

func multipartRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	fake := &fakeS3{}
	r := chi.NewRouter()
	NewHandler(newS3Uploader(fake, "shop-media", "https://cdn.shop.example"), zap.NewNop()).RegisterAdminRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "file", pngBytes))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, strings.HasPrefix(body["url"], "https://cdn.shop.example/products/"))
	assert.True(t, strings.HasSuffix(body["url"], ".png"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "file", []byte("plain text, not an image")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "other", pngBytes))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UploadDisabled(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(Disabled(), zap.NewNop()).RegisterAdminRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "file", pngBytes))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
