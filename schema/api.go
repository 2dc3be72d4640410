package schema

type RespErr struct {
	Err string `json:"error"`
}

type WalletCreateReq struct {
	OwnerId string `json:"ownerId"`
}

type WalletImportReq struct {
	OwnerId  string `json:"ownerId"`
	Mnemonic string `json:"mnemonic"`
}

// RespWallet returns the mnemonic only on create/import, so the caller can
// back it up; it is never returned by lookups.
type RespWallet struct {
	OwnerId  string `json:"ownerId"`
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

type RespWalletInfo struct {
	OwnerId     string `json:"ownerId"`
	Address     string `json:"address"`
	AmountMicro uint64 `json:"amountMicro"`
	Amount      string `json:"amount"` // display units
}

type TransferReq struct {
	OwnerId   string `json:"ownerId"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"` // display units
	Note      string `json:"note"`
}

type DonationReq struct {
	OwnerId     string `json:"ownerId"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	Message     string `json:"message"`
	IsAnonymous bool   `json:"isAnonymous"`
	CampaignId  uint   `json:"campaignId"` // optional; attributes the donation
}

type CampaignReq struct {
	OwnerId       string `json:"ownerId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Goal          string `json:"goal"` // display units
	WalletAddress string `json:"walletAddress"`
}

type SponsorDonationReq struct {
	OwnerId string `json:"ownerId"`
	Amount  string `json:"amount"`
}

type MintReq struct {
	OwnerId     string           `json:"ownerId"`
	AssetName   string           `json:"assetName"`
	UnitName    string           `json:"unitName"`
	TotalSupply uint64           `json:"totalSupply"`
	Decimals    uint32           `json:"decimals"`
	Url         string           `json:"url"`
	Authorities AssetAuthorities `json:"authorities"`
}

// RespSubmit reports a pipeline run. Warning is set when the chain operation
// succeeded but recording the outcome failed.
type RespSubmit struct {
	TxId           string `json:"txId"`
	Status         string `json:"status"`
	ConfirmedRound uint64 `json:"confirmedRound,omitempty"`
	AssetId        uint64 `json:"assetId,omitempty"`
	Amount         string `json:"amount,omitempty"`
	Recipient      string `json:"recipient,omitempty"`
	Message        string `json:"message,omitempty"`
	Warning        string `json:"warning,omitempty"`
}

type ChatReq struct {
	OwnerId string `json:"ownerId"`
	Message string `json:"message"`
	Context string `json:"context"`
}

type RespChat struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

type VideoReq struct {
	OwnerId string `json:"ownerId"`
	Text    string `json:"text"`
}

type RespVideo struct {
	TaskId    string `json:"taskId,omitempty"`
	Status    string `json:"status"`
	ResultUrl string `json:"resultUrl,omitempty"`
}

type SpeechReq struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type RedditPost struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Subreddit   string `json:"subreddit"`
	SelfText    string `json:"selftext"`
	Url         string `json:"url"`
	Permalink   string `json:"permalink"`
	Ups         int64  `json:"ups"`
	NumComments int64  `json:"num_comments"`
	CreatedUtc  int64  `json:"created_utc"`
	Thumbnail   string `json:"thumbnail"`
}
