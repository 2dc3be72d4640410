package algopay

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/gin-gonic/gin"
	"github.com/usheguard/algopay/common"
	"github.com/usheguard/algopay/schema"
)

func (s *Algopay) runAPI(port string) {
	r := s.engine
	r.Use(common.CORSMiddleware())
	if s.config.GetParam().RateLimit > 0 {
		r.Use(common.LimiterMiddleware(s.config.GetParam().RateLimit, "M", s.config.GetIPWhiteList()))
	}
	v1 := r.Group("/")
	{
		v1.GET("/info", s.getInfo)

		// wallet
		v1.POST("/wallet", s.createWallet)
		v1.POST("/wallet/import", s.importWallet)
		v1.GET("/wallet/:ownerId", s.getWallet)

		// chain submissions
		v1.POST("/transfer", s.transfer)
		v1.POST("/donation", s.donate)
		v1.POST("/donation/sponsor", s.sponsorDonate)
		v1.POST("/mint", s.mintAsset)
		v1.GET("/donations/:ownerId", s.getDonations)

		// campaigns
		v1.POST("/campaign", s.createCampaign)
		v1.GET("/campaigns", s.getCampaigns)

		// assistant
		v1.POST("/chat", s.chat)
		v1.GET("/chat/:ownerId", s.getChatHistory)

		// media
		v1.POST("/video", s.generateVideo)
		v1.GET("/video/cache", s.getCacheVideoTasks)
		v1.GET("/video/:taskId", s.getVideoTask)
		v1.POST("/video/kill/:taskId", s.killVideoTask)
		v1.POST("/speech", s.synthesizeSpeech)

		// reddit proxy
		v1.GET("/reddit/:subreddit/hot", s.redditHot)
	}

	if err := r.Run(port); err != nil {
		panic(err)
	}
}

func (s *Algopay) getInfo(c *gin.Context) {
	status := s.cache.GetNodeStatus()
	c.JSON(http.StatusOK, gin.H{
		"name":               "algopay",
		"version":            "v1.0.0",
		"lastRound":          status.LastRound,
		"catchupTime":        status.CatchupTime,
		"timeSinceLastRound": status.TimeSinceLastRound,
	})
}

func (s *Algopay) createWallet(c *gin.Context) {
	req := schema.WalletCreateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.OwnerId == "" {
		errorResponse(c, schema.ErrNullOwnerId.Error())
		return
	}
	if _, err := s.wdb.GetHolder(req.OwnerId); err == nil {
		errorResponse(c, schema.ErrExistHolder.Error())
		return
	} else if err != schema.ErrNotExist {
		internalErrorResponse(c, err.Error())
		return
	}

	acct := crypto.GenerateAccount()
	mn, err := mnemonic.FromPrivateKey(acct.PrivateKey)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	holder := schema.Holder{
		OwnerId:  req.OwnerId,
		Address:  acct.Address.String(),
		Mnemonic: mn,
	}
	if err := s.wdb.InsertHolder(holder); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	// the mnemonic is returned this one time so the caller can back it up
	c.JSON(http.StatusOK, schema.RespWallet{
		OwnerId:  holder.OwnerId,
		Address:  holder.Address,
		Mnemonic: mn,
	})
}

func (s *Algopay) importWallet(c *gin.Context) {
	req := schema.WalletImportReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.OwnerId == "" {
		errorResponse(c, schema.ErrNullOwnerId.Error())
		return
	}
	sk, err := mnemonic.ToPrivateKey(req.Mnemonic)
	if err != nil {
		errorResponse(c, "invalid mnemonic")
		return
	}
	acct, err := crypto.AccountFromPrivateKey(sk)
	if err != nil {
		errorResponse(c, "invalid mnemonic")
		return
	}
	holder := schema.Holder{
		OwnerId:  req.OwnerId,
		Address:  acct.Address.String(),
		Mnemonic: req.Mnemonic,
	}
	if err := s.wdb.UpsertHolder(holder); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespWallet{
		OwnerId:  holder.OwnerId,
		Address:  holder.Address,
		Mnemonic: holder.Mnemonic,
	})
}

func (s *Algopay) getWallet(c *gin.Context) {
	ownerId := c.Param("ownerId")
	holder, err := s.wdb.GetHolder(ownerId)
	if err == schema.ErrNotExist {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}

	amountMicro, ok := s.cache.GetBalance(holder.Address)
	if !ok {
		acct, err := s.ledger.AccountInformation(c, holder.Address)
		if err != nil {
			internalErrorResponse(c, schema.ErrNetworkUnavailable.Error())
			return
		}
		amountMicro = acct.Amount
		s.cache.UpdateBalance(holder.Address, amountMicro)
	}
	c.JSON(http.StatusOK, schema.RespWalletInfo{
		OwnerId:     holder.OwnerId,
		Address:     holder.Address,
		AmountMicro: amountMicro,
		Amount:      schema.FormatDisplayAmount(amountMicro),
	})
}

func (s *Algopay) transfer(c *gin.Context) {
	req := schema.TransferReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	holder, err := s.wdb.GetHolder(req.OwnerId)
	if err == schema.ErrNotExist {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	amountMicro, err := schema.ParseDisplayAmount(req.Amount)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	intent := schema.TransferIntent{
		To:          req.Recipient,
		AmountMicro: amountMicro,
		Note:        []byte(req.Note),
	}
	outcome, err := s.pipeline.SubmitPayment(c, holder, intent)
	submitResponse(c, outcome, err)
}

func (s *Algopay) donate(c *gin.Context) {
	req := schema.DonationReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	holder, err := s.wdb.GetHolder(req.OwnerId)
	if err == schema.ErrNotExist {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	if req.CampaignId != 0 {
		campaign, err := s.wdb.GetCampaign(req.CampaignId)
		if err == schema.ErrNotExist {
			notFoundResponse(c, err.Error())
			return
		}
		if err != nil {
			internalErrorResponse(c, err.Error())
			return
		}
		if req.Recipient == "" {
			req.Recipient = campaign.WalletAddress
		}
	}
	amountMicro, err := schema.ParseDisplayAmount(req.Amount)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	intent := schema.TransferIntent{
		To:          req.Recipient,
		AmountMicro: amountMicro,
		Note:        []byte(req.Message),
	}
	outcome, err := s.pipeline.SubmitDonation(c, holder, intent, req.Message, req.IsAnonymous)
	if err == nil && req.CampaignId != 0 {
		if raiseErr := s.wdb.AddCampaignRaised(req.CampaignId, amountMicro); raiseErr != nil {
			log.Warn("add campaign raised", "err", raiseErr, "campaignId", req.CampaignId)
		}
	}
	submitResponse(c, outcome, err)
}

func (s *Algopay) createCampaign(c *gin.Context) {
	req := schema.CampaignReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.OwnerId == "" {
		errorResponse(c, schema.ErrNullOwnerId.Error())
		return
	}
	if req.Title == "" {
		errorResponse(c, "title can not be null")
		return
	}
	goalMicro, err := schema.ParseDisplayAmount(req.Goal)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if _, err := types.DecodeAddress(req.WalletAddress); err != nil {
		errorResponse(c, "invalid campaign wallet address")
		return
	}
	campaign := schema.Campaign{
		OwnerId:       req.OwnerId,
		Title:         req.Title,
		Description:   req.Description,
		GoalMicro:     goalMicro,
		WalletAddress: req.WalletAddress,
		Active:        true,
	}
	if err := s.wdb.InsertCampaign(&campaign); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (s *Algopay) getCampaigns(c *gin.Context) {
	campaigns, err := s.wdb.GetCampaigns(100)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// sponsorDonate signs with the sponsor wallet and pays the configured charity
// address; the outcome is attributed to the requesting owner.
func (s *Algopay) sponsorDonate(c *gin.Context) {
	if s.sponsor == nil || s.charityAddr == "" {
		errorResponse(c, "sponsored donations not configured")
		return
	}
	req := schema.SponsorDonationReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.OwnerId == "" {
		errorResponse(c, schema.ErrNullOwnerId.Error())
		return
	}
	amountMicro, err := schema.ParseDisplayAmount(req.Amount)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	holder := *s.sponsor
	holder.OwnerId = req.OwnerId
	intent := schema.TransferIntent{
		To:          s.charityAddr,
		AmountMicro: amountMicro,
		Note:        []byte("sponsored donation"),
	}
	outcome, err := s.pipeline.SubmitDonation(c, holder, intent, "sponsored donation", false)
	submitResponse(c, outcome, err)
}

func (s *Algopay) mintAsset(c *gin.Context) {
	req := schema.MintReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	holder, err := s.wdb.GetHolder(req.OwnerId)
	if err == schema.ErrNotExist {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	intent := schema.AssetCreationIntent{
		AssetName:   req.AssetName,
		UnitName:    req.UnitName,
		TotalSupply: req.TotalSupply,
		Decimals:    req.Decimals,
		MetadataUrl: req.Url,
		Authorities: req.Authorities,
	}
	outcome, err := s.pipeline.SubmitAssetCreation(c, holder, intent)
	submitResponse(c, outcome, err)
}

func (s *Algopay) getDonations(c *gin.Context) {
	ownerId := c.Param("ownerId")
	outcomes, err := s.wdb.GetOutcomesByOwner(ownerId, 100)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, outcomes)
}

func (s *Algopay) chat(c *gin.Context) {
	req := schema.ChatReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.Message == "" {
		errorResponse(c, "message can not be null")
		return
	}
	if req.Context == "" {
		req.Context = schema.ChatContextDapp
	}
	reply := GenerateReply(req.Context, req.Message)
	if req.OwnerId != "" {
		if err := s.wdb.InsertChatRecord(schema.ChatRecord{
			OwnerId:  req.OwnerId,
			Message:  req.Message,
			Response: reply,
			Context:  req.Context,
		}); err != nil {
			log.Warn("insert chat record", "err", err, "ownerId", req.OwnerId)
		}
	}
	c.JSON(http.StatusOK, schema.RespChat{
		Response:  reply,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Algopay) getChatHistory(c *gin.Context) {
	ownerId := c.Param("ownerId")
	records, err := s.wdb.GetChatRecordsByOwner(ownerId, 50)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Algopay) redditHot(c *gin.Context) {
	subreddit := c.Param("subreddit")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}
	posts, err := s.redditCli.HotPosts(subreddit, limit)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, posts)
}

// submitResponse maps a pipeline result to http. A timeout is 202, not an
// error status: the transaction may still land after the wait window.
func submitResponse(c *gin.Context, outcome *schema.SubmissionOutcome, err error) {
	if err != nil {
		var invalid *schema.InvalidIntentError
		var rejected *schema.RejectedByNetworkError
		switch {
		case errors.As(err, &invalid):
			errorResponse(c, err.Error())
		case errors.As(err, &rejected):
			errorResponse(c, err.Error())
		case errors.Is(err, schema.ErrNetworkUnavailable):
			c.JSON(http.StatusBadGateway, schema.RespErr{Err: err.Error()})
		case errors.Is(err, schema.ErrConfirmationTimeout):
			resp := newRespSubmit(outcome)
			resp.Message = "transaction broadcast; confirmation still pending"
			c.JSON(http.StatusAccepted, resp)
		default:
			internalErrorResponse(c, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, newRespSubmit(outcome))
}

func newRespSubmit(outcome *schema.SubmissionOutcome) schema.RespSubmit {
	resp := schema.RespSubmit{
		TxId:           outcome.TxId,
		Status:         outcome.Status,
		ConfirmedRound: outcome.ConfirmedRound,
		AssetId:        outcome.AssetId,
		Recipient:      outcome.Counterparty,
		Message:        outcome.Note,
	}
	if outcome.AmountMicro > 0 {
		resp.Amount = schema.FormatDisplayAmount(outcome.AmountMicro)
	}
	if outcome.RecordWarning {
		resp.Warning = "transaction settled on chain but recording its outcome failed"
	}
	return resp
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func notFoundResponse(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
