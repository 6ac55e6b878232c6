package utils

import (
	"bytes"
	"log"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes starts with the PNG signature so content sniffing accepts it
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("fake png body")...)

// jpegBytes starts with the JPEG SOI marker
var jpegBytes = append([]byte("\xff\xd8\xff\xe0"), []byte("fake jpeg body")...)

// createTestFileHeader creates a multipart.FileHeader for testing
func createTestFileHeader(t *testing.T, filename string, size int64, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	require.NotEmpty(t, form.File["image"])
	fileHeader := form.File["image"][0]
	// Override size for testing purposes
	fileHeader.Size = size
	return fileHeader
}

func TestValidateImageFile_Success(t *testing.T) {
	tests := []struct {
		filename string
		content  []byte
	}{
		{"avatar.png", pngBytes},
		{"AVATAR.PNG", pngBytes},
		{"avatar.jpg", jpegBytes},
		{"avatar.jpeg", jpegBytes},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			fileHeader := createTestFileHeader(t, tt.filename, int64(len(tt.content)), tt.content)
			assert.NoError(t, ValidateImageFile(fileHeader))
		})
	}
}

func TestValidateImageFile_FileTooLarge(t *testing.T) {
	fileHeader := createTestFileHeader(t, "large.png", 11*1024*1024, pngBytes)

	err := ValidateImageFile(fileHeader)
	require.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "FILE_TOO_LARGE", fileErr.Code)
	assert.Contains(t, fileErr.Message, "File size exceeds maximum allowed size")
}

func TestValidateImageFile_InvalidFormat(t *testing.T) {
	for _, name := range []string{"doc.gif", "doc.pdf", "noextension"} {
		t.Run(name, func(t *testing.T) {
			fileHeader := createTestFileHeader(t, name, int64(len(pngBytes)), pngBytes)

			err := ValidateImageFile(fileHeader)
			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
		})
	}
}

func TestValidateImageFile_ContentMismatch(t *testing.T) {
	content := []byte("this is just text pretending to be an image")
	fileHeader := createTestFileHeader(t, "fake.png", int64(len(content)), content)

	err := ValidateImageFile(fileHeader)
	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_FILE_CONTENT", fileErr.Code)

	fileHeader = createTestFileHeader(t, "photo.png", int64(len(jpegBytes)), jpegBytes)
	fileErr, ok = ValidateImageFile(fileHeader).(*FileUploadError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_FILE_CONTENT", fileErr.Code)
}

func TestSaveUploadedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	fileHeader := createTestFileHeader(t, "avatar.png", int64(len(pngBytes)), pngBytes)

	require.NoError(t, SaveUploadedFile(fileHeader, dir, "stored.png"))

	saved, err := os.ReadFile(filepath.Join(dir, "stored.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, saved)
}

func TestSaveUploadedFile_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	fileHeader := createTestFileHeader(t, "avatar.png", int64(len(pngBytes)), pngBytes)

	require.NoError(t, SaveUploadedFile(fileHeader, dir, "../../escape.png"))

	_, err := os.Stat(filepath.Join(dir, "escape.png"))
	assert.NoError(t, err)
}

func TestSaveUploadedFile_ClosesQuietly(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	fileHeader := createTestFileHeader(t, "avatar.png", int64(len(pngBytes)), pngBytes)
	require.NoError(t, SaveUploadedFile(fileHeader, t.TempDir(), "stored.png"))
	assert.Empty(t, logs.String(), "a clean save writes no close warnings")
}

func TestSafeFilename(t *testing.T) {
	assert.True(t, SafeFilename("abc.png"))
	assert.False(t, SafeFilename(""))
	assert.False(t, SafeFilename("../abc.png"))
	assert.False(t, SafeFilename("dir/abc.png"))
	assert.False(t, SafeFilename(`dir\abc.png`))
}

func TestImageContentType(t *testing.T) {
	ct, ok := ImageContentType("a.JPG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)

	_, ok = ImageContentType("a.gif")
	assert.False(t, ok)
}

func TestGetImageURL(t *testing.T) {
	assert.Equal(t, "/api/v1/uploads/abc.png", GetImageURL("abc.png"))
	assert.Equal(t, "", GetImageURL(""))
}
