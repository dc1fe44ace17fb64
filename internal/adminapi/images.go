package adminapi

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/webserver"
	"github.com/moatazsakr78/heawabas-main-sub000/pkg/common"
)

const productImagesBucket = "product-images"

func registerImageRoutes() {
	webserver.ApiPOST("/api/upload-product-image", uploadProductImage)
	webserver.ApiGET("/api/optimized-image", optimizedImage)
}

// uploadProductImage stores an image in the local bucket directory and
// returns its public URL with a cache-busting version parameter.
func uploadProductImage(c echo.Context) error {
	cfg := GetApp(c).Config()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing file field", nil)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload", err.Error())
	}
	defer src.Close()

	// sniff the real content type instead of trusting the client header
	head := make([]byte, 512)
	n, _ := io.ReadFull(src, head)
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return fail(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only image uploads are accepted", contentType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Unable to rewind upload", err.Error())
	}

	subPath := sanitizeBucketPath(c.FormValue("path"))
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = extensionFor(contentType)
	}
	name := common.UUID() + ext

	dir := path.Join(cfg.System.Workdir, "buckets", productImagesBucket, subPath)
	common.MakeDir(dir)
	dstPath := path.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Unable to store upload", err.Error())
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Unable to store upload", err.Error())
	}

	objectPath := path.Join(productImagesBucket, subPath, name)
	originalURL := cfg.Web.PublicBaseURL + "/static/" + objectPath
	versioned := fmt.Sprintf("%s?v=%d", originalURL, time.Now().Unix())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"url":         versioned,
		"originalUrl": originalURL,
		"path":        objectPath,
		"success":     true,
	})
}

// optimizedImage streams a remote storage object through with immutable
// cache headers. Only whitelisted object-storage hosts are proxied.
func optimizedImage(c echo.Context) error {
	cfg := GetApp(c).Config()

	rawURL := c.QueryParam("url")
	if rawURL == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing url parameter", nil)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed url parameter", nil)
	}
	if !hostAllowed(u.Host, cfg.Web.StorageHosts) {
		return fail(c, http.StatusForbidden, "HOST_NOT_ALLOWED", "URL host is not a known storage host", u.Host)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(u.String())
	if err != nil {
		return fail(c, http.StatusBadGateway, "FETCH_ERROR", "Failed to fetch image", err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fail(c, http.StatusBadGateway, "FETCH_ERROR", "Upstream returned an error", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fail(c, http.StatusBadGateway, "INVALID_FILE_TYPE", "Upstream object is not an image", contentType)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Stream(http.StatusOK, contentType, resp.Body)
}

func hostAllowed(host string, allowed []string) bool {
	for _, h := range allowed {
		if strings.EqualFold(host, h) {
			return true
		}
	}
	return false
}

// sanitizeBucketPath keeps the optional sub-path inside the bucket.
func sanitizeBucketPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "/")
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}
