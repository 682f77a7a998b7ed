package middleware

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const jpegQuality = 95

// ImageField describes one multipart file field and the size images in it are cropped to.
type ImageField struct {
	Name     string
	MaxCount int
	Width    int
	Height   int
}

// UploadImages resizes the images of a multipart request into jpeg files, stores them in
// folder and exposes the stored names through requestctx.Uploads. Other requests pass through.
func UploadImages(store storage.ImageStore, folder, prefix string, fields ...ImageField) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
				return next(c)
			}

			form, err := c.MultipartForm()
			if err != nil {
				log.Ctx(c.Request().Context()).Error().Err(err).Str("component", "UploadImages").Msg("")
				return response.WriteErrorResponse(c, errs.ErrClient, nil)
			}

			uploaded := map[string][]string{}
			for _, field := range fields {
				files := form.File[field.Name]
				if len(files) == 0 {
					continue
				}
				if field.MaxCount > 0 && len(files) > field.MaxCount {
					return response.WriteErrorResponse(c, errs.ErrTooManyFiles, nil)
				}

				for i, fh := range files {
					name := imageName(prefix, i, len(files) > 1 || field.MaxCount > 1)
					if err := saveImage(c, store, folder, name, fh, field); err != nil {
						return response.WriteErrorResponse(c, err, nil)
					}
					uploaded[field.Name] = append(uploaded[field.Name], name)
				}
			}

			ctx := requestctx.WithUploads(c.Request().Context(), uploaded)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func saveImage(c echo.Context, store storage.ImageStore, folder, name string, fh *multipart.FileHeader, field ImageField) error {
	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := file.Read(head)
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return errs.ErrNotAnImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return errs.ErrNotAnImage
	}

	img = imaging.Fill(img, field.Width, field.Height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return err
	}

	return store.Save(c.Request().Context(), folder, name, buf.Bytes())
}

func imageName(prefix string, index int, numbered bool) string {
	if numbered {
		return fmt.Sprintf("%s-%s-%d-%d.jpeg", prefix, uuid.New().String(), time.Now().UnixMilli(), index+1)
	}
	return fmt.Sprintf("%s-%s-%d.jpeg", prefix, uuid.New().String(), time.Now().UnixMilli())
}
