package cache

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	gocache "github.com/patrickmn/go-cache"
	_ "golang.org/x/image/webp"
)

var (
	memCache       *gocache.Cache // source -> downloaded file
	imageDataCache *gocache.Cache // source and size -> PNG bytes
	fileCacheDir   string
	httpClient     *http.Client

	// Guards downloads into fileCacheDir
	fileMu sync.RWMutex
	once   sync.Once
)

var ErrEmptySource = errors.New("empty image source")

// Init sets up the caches. Only the first call has an effect.
func Init(cacheDir string, fetchTimeout time.Duration) {
	once.Do(func() {
		memCache = gocache.New(5*time.Minute, 10*time.Minute)
		imageDataCache = gocache.New(10*time.Minute, 20*time.Minute)

		fileCacheDir = cacheDir
		if fileCacheDir == "" {
			fileCacheDir = "/tmp/badge-cache"
		}
		os.MkdirAll(filepath.Join(fileCacheDir, "images"), 0755)

		if fetchTimeout <= 0 {
			fetchTimeout = 5 * time.Second
		}
		transport := &http.Transport{
			MaxIdleConns:        200,
			MaxIdleConnsPerHost: 50,
			IdleConnTimeout:     90 * time.Second,
		}
		httpClient = &http.Client{
			Timeout:   fetchTimeout,
			Transport: transport,
		}
	})
}

// GetCacheDir returns the cache directory path
func GetCacheDir() string {
	return fileCacheDir
}

// ============ IMAGE FILES ============

// localPath returns the file holding src, downloading it on first use.
// Files are named after the hash of src so restarts reuse them.
func localPath(src string) (string, error) {
	if src == "" {
		return "", ErrEmptySource
	}

	key := "file:" + hashKey(src)
	if cached, found := memCache.Get(key); found && nonEmptyFile(cached.(string)) {
		return cached.(string), nil
	}

	ext := filepath.Ext(src)
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}
	path := filepath.Join(fileCacheDir, "images", hashKey(src)+ext)

	fileMu.RLock()
	onDisk := nonEmptyFile(path)
	fileMu.RUnlock()

	if !onDisk {
		fileMu.Lock()
		// Another request may have fetched it while we waited.
		if !nonEmptyFile(path) {
			if err := downloadFile(src, path); err != nil {
				fileMu.Unlock()
				return "", fmt.Errorf("fetch image %s: %w", src, err)
			}
			slog.Debug("image cached", "src", src, "path", path)
		}
		onDisk = nonEmptyFile(path)
		fileMu.Unlock()
	}
	if !onDisk {
		return "", fmt.Errorf("fetch image %s: empty response", src)
	}

	memCache.Set(key, path, gocache.DefaultExpiration)
	return path, nil
}

// ============ DIRECT IMAGE DATA CACHING (RAW BYTES) ============

// ImageRequest is an image source to be drawn at a given size in pixels.
type ImageRequest struct {
	Source string
	Width  float64
	Height float64
}

// GetImageData loads src (http(s) URL or data: URI), resizes it to the
// given pixel box and returns PNG bytes. Results are cached per size.
func GetImageData(src string, width, height float64) ([]byte, error) {
	if src == "" {
		return nil, ErrEmptySource
	}

	cacheKey := fmt.Sprintf("img_data:%s_%.1f_%.1f", hashKey(src), width, height)
	if cached, found := imageDataCache.Get(cacheKey); found {
		return cached.([]byte), nil
	}

	img, err := loadImage(src)
	if err != nil {
		return nil, err
	}

	pixelWidth, pixelHeight := int(width), int(height)
	bounds := img.Bounds()
	if pixelWidth > 0 && pixelHeight > 0 && (bounds.Dx() != pixelWidth || bounds.Dy() != pixelHeight) {
		img = imaging.Resize(img, pixelWidth, pixelHeight, imaging.Lanczos)
	}

	// Normalize to 8-bit NRGBA (gofpdf requirement)
	nrgba := imaging.Clone(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, nrgba, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	processed := buf.Bytes()
	imageDataCache.Set(cacheKey, processed, gocache.DefaultExpiration)
	return processed, nil
}

// PreloadImages loads multiple images concurrently. Failed sources are
// left out of the result.
func PreloadImages(requests []ImageRequest) map[string][]byte {
	results := make(map[string][]byte)
	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, 20)

	for _, req := range requests {
		if req.Source == "" {
			continue
		}

		wg.Add(1)
		go func(r ImageRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := GetImageData(r.Source, r.Width, r.Height)
			if err == nil {
				mu.Lock()
				results[r.Source] = data
				mu.Unlock()
			}
		}(req)
	}

	wg.Wait()
	return results
}

func loadImage(src string) (image.Image, error) {
	if strings.HasPrefix(src, "data:") {
		data, err := decodeDataURI(src)
		if err != nil {
			return nil, err
		}
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return img, nil
	}

	path, err := localPath(src)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %q", meta)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	return data, nil
}

// ============ HELPER FUNCTIONS ============

func hashKey(s string) string {
	hash := md5.Sum([]byte(s))
	return hex.EncodeToString(hash[:])
}

func downloadFile(url, destPath string) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, resp.Body)
	out.Close()

	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, destPath)
}

func nonEmptyFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Size() > 0
}

// ClearCache drops the in-memory caches and removes downloaded files.
func ClearCache() error {
	memCache.Flush()
	imageDataCache.Flush()
	fileMu.Lock()
	defer fileMu.Unlock()
	if err := os.RemoveAll(fileCacheDir); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(fileCacheDir, "images"), 0755)
}

// GetCacheStats returns cache statistics
func GetCacheStats() map[string]interface{} {
	return map[string]interface{}{
		"memory_items": memCache.ItemCount(),
		"image_items":  imageDataCache.ItemCount(),
		"cache_dir":    fileCacheDir,
	}
}
