package algopay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usheguard/algopay/schema"
)

func TestNormalizeVideoStatus(t *testing.T) {
	vs := normalizeVideoStatus(videoCreateResp{VideoId: "v1", Status: "completed", HostedUrl: "https://host/v1"})
	assert.Equal(t, schema.TaskStatusReady, vs.Status)
	assert.Equal(t, "https://host/v1", vs.ResultUrl)

	// download url preferred over hosted url
	vs = normalizeVideoStatus(videoCreateResp{VideoId: "v1", Status: "ready", HostedUrl: "https://host/v1", DownloadUrl: "https://dl/v1.mp4"})
	assert.Equal(t, "https://dl/v1.mp4", vs.ResultUrl)

	vs = normalizeVideoStatus(videoCreateResp{VideoId: "v2", Status: "error"})
	assert.Equal(t, schema.TaskStatusFailed, vs.Status)

	vs = normalizeVideoStatus(videoCreateResp{VideoId: "v3", Status: "generating"})
	assert.Equal(t, schema.TaskStatusProcessing, vs.Status)

	vs = normalizeVideoStatus(videoCreateResp{VideoId: "v4", Status: "queued"})
	assert.Equal(t, schema.TaskStatusProcessing, vs.Status)
}
