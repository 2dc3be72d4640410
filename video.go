package algopay

import (
	"errors"
	"fmt"

	"github.com/usheguard/algopay/schema"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
	"gopkg.in/h2non/gentleman.v2/plugins/headers"
)

// VideoCli talks to the avatar-video rendering provider. Creation either
// returns a hosted url immediately or a video id to poll.
type VideoCli struct {
	SCli      *gentleman.Client
	replicaId string
}

func NewVideoCli(apiUrl, apiKey, replicaId string) *VideoCli {
	cli := gentleman.New().URL(apiUrl)
	cli.Use(headers.Set("x-api-key", apiKey))
	return &VideoCli{SCli: cli, replicaId: replicaId}
}

type videoCreateResp struct {
	VideoId     string `json:"video_id"`
	Status      string `json:"status"`
	DownloadUrl string `json:"download_url"`
	HostedUrl   string `json:"hosted_url"`
}

func (v *VideoCli) CreateVideo(script, videoName string) (schema.VideoStatus, error) {
	req := v.SCli.Post()
	req.AddPath("/v2/videos")
	req.Use(body.JSON(map[string]string{
		"replica_id": v.replicaId,
		"script":     script,
		"video_name": videoName,
	}))
	resp, err := req.Send()
	if err != nil {
		return schema.VideoStatus{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.VideoStatus{}, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	res := videoCreateResp{}
	if err = resp.JSON(&res); err != nil {
		return schema.VideoStatus{}, err
	}
	return normalizeVideoStatus(res), nil
}

// GetVideo satisfies VideoProvider.
func (v *VideoCli) GetVideo(videoId string) (schema.VideoStatus, error) {
	req := v.SCli.Get()
	req.AddPath("/v2/videos/" + videoId)
	resp, err := req.Send()
	if err != nil {
		return schema.VideoStatus{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.VideoStatus{}, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	res := videoCreateResp{}
	if err = resp.JSON(&res); err != nil {
		return schema.VideoStatus{}, err
	}
	return normalizeVideoStatus(res), nil
}

// normalizeVideoStatus maps the provider's status vocabulary onto the
// VideoTask one.
func normalizeVideoStatus(res videoCreateResp) schema.VideoStatus {
	vs := schema.VideoStatus{VideoId: res.VideoId}
	switch res.Status {
	case "ready", "completed":
		vs.Status = schema.TaskStatusReady
		vs.ResultUrl = res.HostedUrl
		if res.DownloadUrl != "" {
			vs.ResultUrl = res.DownloadUrl
		}
	case "error", "failed", "deleted":
		vs.Status = schema.TaskStatusFailed
	default:
		// queued / generating
		vs.Status = schema.TaskStatusProcessing
	}
	return vs
}
