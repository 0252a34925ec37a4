package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkaram/bankms_backend/controllers"
)

// multipartBody builds a multipart request body with one file part
func multipartBody(t *testing.T, filename, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)

	require.NoError(t, writer.WriteField("documentType", "ID"))
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func uploadRequest(t *testing.T, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	// Validation failures are decided before any database access
	dc := controllers.NewDocumentController(nil, t.TempDir())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, dc.UploadDocument(c))
	return rec
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	body, contentType := multipartBody(t, "big.pdf", "application/pdf", 2*1024*1024+1)
	rec := uploadRequest(t, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "2MB")
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	body, contentType := multipartBody(t, "script.exe", "application/octet-stream", 128)
	rec := uploadRequest(t, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file type")
}

func TestUploadRequiresFile(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("documentType", "ID"))
	require.NoError(t, writer.Close())

	rec := uploadRequest(t, &buf, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")
}
