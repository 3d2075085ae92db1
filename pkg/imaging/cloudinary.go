package imaging

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader pushes an image byte stream to the hosting provider and
// returns a public URL for it.
type Uploader interface {
	Upload(ctx context.Context, image io.Reader, filename string) (string, error)
}

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader builds an Uploader from a cloudinary:// URL
func NewCloudinaryUploader(url, folder string) (Uploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &cloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, image io.Reader, filename string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder:       u.folder,
		PublicID:     filename,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return resp.SecureURL, nil
}
