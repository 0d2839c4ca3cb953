// Package media handles interview recording uploads. Cloud storage is
// not wired up; the disabled uploader mirrors the tagged-result shape
// the rest of the system uses for degraded collaborators.
package media

import "context"

// UploadResult is the tagged outcome of an upload attempt. When
// Disabled is true, URL is empty and LocalPath points at the file left
// on disk.
type UploadResult struct {
	Disabled  bool   `json:"disabled"`
	URL       string `json:"url,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
}

// Uploader stores an interview recording and returns its location.
type Uploader interface {
	Upload(ctx context.Context, localPath string) UploadResult
}

// DisabledUploader always reports uploads as disabled, keeping the
// recording at its local path.
type DisabledUploader struct{}

// Upload implements Uploader.
func (DisabledUploader) Upload(ctx context.Context, localPath string) UploadResult {
	return UploadResult{Disabled: true, LocalPath: localPath}
}

var _ Uploader = DisabledUploader{}
