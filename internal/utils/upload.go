package utils

import (
	"fmt"                       // Error wrapping
	"mime/multipart"            // Uploaded file headers
	"path/filepath"             // Extension handling
	"strings"                   // String manipulation
	"translink/internal/domain" // Validation error

	"github.com/gin-gonic/gin"  // Gin web framework, for SaveUploadedFile
	"github.com/google/uuid"    // Random filenames for stored uploads
)

// allowedImageExts are the accepted upload extensions for truck images and
// avatars.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// SaveImage stores an uploaded image under dir with a random filename and
// returns the stored name. The caller keeps the name as an opaque reference
// on the Truck/Cargo/User record; file contents are never interpreted.
func SaveImage(c *gin.Context, file *multipart.FileHeader, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename)) // Normalize the extension
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q: %w", ext, domain.ErrValidation)
	}
	name := uuid.NewString() + ext // Random stored filename
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", err // Disk or permission failure
	}
	return name, nil
}
