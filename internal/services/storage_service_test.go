// internal/services/storage_service_test.go
package services

import (
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanz/sabores-backend/internal/config"
)

func localStorage(t *testing.T) *StorageService {
	t.Helper()
	svc, err := NewStorageService(&config.Config{})
	require.NoError(t, err)
	require.Nil(t, svc.s3Client)
	return svc
}

func imageHeader(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{"image/png"}},
	}
}

func TestUploadImageRejectsOversizedFile(t *testing.T) {
	svc := localStorage(t)

	_, err := svc.UploadImage(nil, imageHeader("foto.png", maxImageSize+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestUploadImageRejectsDisallowedExtension(t *testing.T) {
	svc := localStorage(t)

	for _, name := range []string{"script.exe", "doc.pdf", "sem-extensao"} {
		_, err := svc.UploadImage(nil, imageHeader(name, 100))
		assert.Error(t, err, "file %q should be rejected", name)
	}
}

func TestGenerateFileNameShape(t *testing.T) {
	svc := localStorage(t)

	key := svc.generateFileName("Foto do Bolo.PNG")

	assert.True(t, strings.HasPrefix(key, "images/"))
	assert.Equal(t, ".png", filepath.Ext(key))
	assert.NotEqual(t, key, svc.generateFileName("Foto do Bolo.PNG"))
}
