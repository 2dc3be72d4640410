package algopay

import (
	"errors"
	"fmt"

	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
	"gopkg.in/h2non/gentleman.v2/plugins/headers"
)

const defaultVoiceId = "21m00Tcm4TlvDq8ikWAM" // "Rachel"

type SpeechCli struct {
	SCli *gentleman.Client
}

func NewSpeechCli(apiUrl, apiKey string) *SpeechCli {
	cli := gentleman.New().URL(apiUrl)
	cli.Use(headers.Set("xi-api-key", apiKey))
	return &SpeechCli{SCli: cli}
}

// Synthesize returns rendered audio bytes (mpeg) for the given text.
func (s *SpeechCli) Synthesize(text, voiceId string) ([]byte, error) {
	if voiceId == "" {
		voiceId = defaultVoiceId
	}
	req := s.SCli.Post()
	req.AddPath("/v1/text-to-speech/" + voiceId)
	req.Use(body.JSON(map[string]interface{}{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}))
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	return resp.Bytes(), nil
}
