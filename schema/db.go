package schema

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// submission outcome status
	OutcomeConfirmed            = "confirmed"
	OutcomeBroadcastFailed      = "broadcastFailed"
	OutcomeConfirmationTimedOut = "confirmationTimedOut"

	// submission kind
	SubmitKindPayment       = "payment"
	SubmitKindDonation      = "donation"
	SubmitKindAssetCreation = "assetCreation"

	// chat contexts
	ChatContextDapp    = "algorand_dapp"
	ChatContextGeneral = "general"
)

// Holder is a user's chain account managed server-side. Mnemonic is the
// signing secret; it is never serialized and never logged.
type Holder struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	OwnerId  string `gorm:"uniqueIndex" json:"ownerId"`
	Address  string `json:"address"`
	Mnemonic string `json:"-"`
}

// SubmissionOutcome documents one pipeline run that reached broadcasting.
// Rows are append-only; RecordWarning is set in memory when the insert itself
// failed and is never persisted.
type SubmissionOutcome struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	OwnerId        string `gorm:"index:idx_outcome_owner" json:"ownerId"`
	Kind           string `json:"kind"` // "payment","donation","assetCreation"
	TxId           string `json:"txId"`
	ConfirmedRound uint64 `json:"confirmedRound,omitempty"`
	AssetId        uint64 `json:"assetId,omitempty"`
	AmountMicro    uint64 `json:"amountMicro"`
	Counterparty   string `json:"counterparty"`
	Note           string `json:"note,omitempty"`
	Anonymous      bool   `json:"anonymous,omitempty"`

	// kind-specific snapshot, e.g. asset authorities for a mint
	Detail datatypes.JSON `json:"detail,omitempty"`

	Status    string `json:"status"` // "confirmed","broadcastFailed","confirmationTimedOut"
	ErrMsg    string `json:"errMsg,omitempty"`
	Published bool   `json:"-"` // kafka event sent

	RecordWarning bool `gorm:"-" json:"recordWarning,omitempty"`
}

// Campaign is a fundraising target donations can be attributed to.
// RaisedMicro only moves on confirmed donations.
type Campaign struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	OwnerId       string `gorm:"index:idx_campaign_owner" json:"ownerId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	GoalMicro     uint64 `json:"goalMicro"`
	RaisedMicro   uint64 `json:"raisedMicro"`
	WalletAddress string `json:"walletAddress"`
	Active        bool   `json:"active"`
}

type ChatRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	OwnerId  string `gorm:"index:idx_chat_owner" json:"ownerId"`
	Message  string `json:"message"`
	Response string `json:"response"`
	Context  string `json:"context"`
}
