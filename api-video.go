package algopay

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usheguard/algopay/schema"
)

func (s *Algopay) generateVideo(c *gin.Context) {
	req := schema.VideoReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.Text == "" {
		errorResponse(c, "text can not be null")
		return
	}
	vs, err := s.videoCli.CreateVideo(req.Text, "algopay-video")
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	if vs.Status == schema.TaskStatusReady {
		c.JSON(http.StatusOK, schema.RespVideo{
			TaskId:    vs.VideoId,
			Status:    schema.TaskStatusReady,
			ResultUrl: vs.ResultUrl,
		})
		return
	}
	if err = s.videoMg.Track(vs.VideoId); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespVideo{
		TaskId: vs.VideoId,
		Status: schema.TaskStatusProcessing,
	})
}

// getVideoTask answers from the live manager first, then from the terminal
// snapshot store.
func (s *Algopay) getVideoTask(c *gin.Context) {
	taskId := c.Param("taskId")
	if tk := s.videoMg.GetTask(taskId); tk != nil {
		c.JSON(http.StatusOK, tk)
		return
	}
	tk, err := s.store.LoadTask(taskId)
	if err == schema.ErrNotExist {
		notFoundResponse(c, schema.ErrNotFound.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, tk)
}

func (s *Algopay) killVideoTask(c *gin.Context) {
	taskId := c.Param("taskId")
	if err := s.videoMg.Kill(taskId); err != nil {
		notFoundResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (s *Algopay) getCacheVideoTasks(c *gin.Context) {
	c.JSON(http.StatusOK, s.videoMg.GetTasks())
}

func (s *Algopay) synthesizeSpeech(c *gin.Context) {
	req := schema.SpeechReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.Text == "" {
		errorResponse(c, "text can not be null")
		return
	}
	audio, err := s.speechCli.Synthesize(req.Text, req.Voice)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
