package sdk

import (
	"errors"
	"fmt"

	"github.com/usheguard/algopay/schema"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
)

// Client is a thin http client for a running algopay service.
type Client struct {
	SCli *gentleman.Client
}

func New(payUrl string) *Client {
	return &Client{
		SCli: gentleman.New().URL(payUrl),
	}
}

func (a *Client) CreateWallet(ownerId string) (schema.RespWallet, error) {
	res := schema.RespWallet{}
	err := a.post("/wallet", schema.WalletCreateReq{OwnerId: ownerId}, &res)
	return res, err
}

func (a *Client) ImportWallet(ownerId, mn string) (schema.RespWallet, error) {
	res := schema.RespWallet{}
	err := a.post("/wallet/import", schema.WalletImportReq{OwnerId: ownerId, Mnemonic: mn}, &res)
	return res, err
}

func (a *Client) GetWallet(ownerId string) (schema.RespWalletInfo, error) {
	res := schema.RespWalletInfo{}
	err := a.get("/wallet/"+ownerId, &res)
	return res, err
}

func (a *Client) Transfer(req schema.TransferReq) (schema.RespSubmit, error) {
	res := schema.RespSubmit{}
	err := a.post("/transfer", req, &res)
	return res, err
}

func (a *Client) Donate(req schema.DonationReq) (schema.RespSubmit, error) {
	res := schema.RespSubmit{}
	err := a.post("/donation", req, &res)
	return res, err
}

func (a *Client) SponsorDonate(req schema.SponsorDonationReq) (schema.RespSubmit, error) {
	res := schema.RespSubmit{}
	err := a.post("/donation/sponsor", req, &res)
	return res, err
}

func (a *Client) Mint(req schema.MintReq) (schema.RespSubmit, error) {
	res := schema.RespSubmit{}
	err := a.post("/mint", req, &res)
	return res, err
}

func (a *Client) GetDonations(ownerId string) ([]schema.SubmissionOutcome, error) {
	res := make([]schema.SubmissionOutcome, 0)
	err := a.get("/donations/"+ownerId, &res)
	return res, err
}

func (a *Client) CreateCampaign(req schema.CampaignReq) (schema.Campaign, error) {
	res := schema.Campaign{}
	err := a.post("/campaign", req, &res)
	return res, err
}

func (a *Client) GetCampaigns() ([]schema.Campaign, error) {
	res := make([]schema.Campaign, 0)
	err := a.get("/campaigns", &res)
	return res, err
}

func (a *Client) Chat(req schema.ChatReq) (schema.RespChat, error) {
	res := schema.RespChat{}
	err := a.post("/chat", req, &res)
	return res, err
}

func (a *Client) GenerateVideo(ownerId, text string) (schema.RespVideo, error) {
	res := schema.RespVideo{}
	err := a.post("/video", schema.VideoReq{OwnerId: ownerId, Text: text}, &res)
	return res, err
}

func (a *Client) GetVideoTask(taskId string) (schema.VideoTask, error) {
	res := schema.VideoTask{}
	err := a.get("/video/"+taskId, &res)
	return res, err
}

func (a *Client) KillVideoTask(taskId string) error {
	req := a.SCli.Post()
	req.AddPath("/video/kill/" + taskId)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	return nil
}

func (a *Client) post(path string, payload, out interface{}) error {
	req := a.SCli.Post()
	req.AddPath(path)
	req.Use(body.JSON(payload))
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	return resp.JSON(out)
}

func (a *Client) get(path string, out interface{}) error {
	req := a.SCli.Get()
	req.AddPath(path)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	return resp.JSON(out)
}
