package config

import (
    "fmt"
    "os"
    "strings"
    "time"
)

// Image backends accepted in IMAGE_BACKEND.
const (
    ImageBackendLocal = "local"
    ImageBackendS3    = "s3"
)

// ImageConfig selects where lesson images are served from. The local
// backend serves files below Dir; the s3 backend redirects to presigned
// GET URLs for objects below KeyPrefix in Bucket.
type ImageConfig struct {
    Backend      string
    Dir          string
    Bucket       string
    KeyPrefix    string
    Region       string
    Endpoint     string
    AccessKey    string
    SecretKey    string
    UsePathStyle bool
    PresignTTL   time.Duration
}

// LoadImageConfig reads IMAGE_* and S3 variables.
func LoadImageConfig() (ImageConfig, error) {
    c := ImageConfig{
        Backend:      strings.ToLower(envStr("IMAGE_BACKEND", ImageBackendLocal)),
        Dir:          envStr("IMAGE_DIR", "static/images"),
        Bucket:       os.Getenv("S3_BUCKET_NAME"),
        KeyPrefix:    strings.Trim(envStr("S3_KEY_PREFIX", "lessons"), "/"),
        Region:       envStr("AWS_REGION", "us-east-1"),
        Endpoint:     os.Getenv("S3_ENDPOINT"),
        AccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
        SecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
        UsePathStyle: envBool("S3_USE_PATH_STYLE", false),
        PresignTTL:   envDur("S3_PRESIGN_TTL", 15*time.Minute),
    }
    switch c.Backend {
    case ImageBackendLocal:
    case ImageBackendS3:
        if c.Bucket == "" {
            return c, fmt.Errorf("IMAGE_BACKEND=s3 requires S3_BUCKET_NAME")
        }
    default:
        return c, fmt.Errorf("unknown IMAGE_BACKEND %q", c.Backend)
    }
    return c, nil
}
