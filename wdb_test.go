package algopay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usheguard/algopay/schema"
)

func newTestWdb(t *testing.T) *Wdb {
	w := NewSqliteDb(t.TempDir())
	assert.NoError(t, w.Migrate())
	t.Cleanup(w.Close)
	return w
}

func TestHolderCrud(t *testing.T) {
	w := newTestWdb(t)

	_, err := w.GetHolder("owner-1")
	assert.Equal(t, schema.ErrNotExist, err)

	holder := schema.Holder{OwnerId: "owner-1", Address: "ADDR1", Mnemonic: "mn1"}
	assert.NoError(t, w.InsertHolder(holder))

	got, err := w.GetHolder("owner-1")
	assert.NoError(t, err)
	assert.Equal(t, "ADDR1", got.Address)

	// import overwrites: last write wins
	assert.NoError(t, w.UpsertHolder(schema.Holder{OwnerId: "owner-1", Address: "ADDR2", Mnemonic: "mn2"}))
	got, err = w.GetHolder("owner-1")
	assert.NoError(t, err)
	assert.Equal(t, "ADDR2", got.Address)
	assert.Equal(t, "mn2", got.Mnemonic)
}

func TestOutcomeRecordAndQuery(t *testing.T) {
	w := newTestWdb(t)

	outcome := &schema.SubmissionOutcome{
		OwnerId:      "owner-1",
		Kind:         schema.SubmitKindDonation,
		TxId:         "tx-1",
		AmountMicro:  500000,
		Counterparty: "ADDR2",
		Status:       schema.OutcomeConfirmed,
	}
	assert.NoError(t, w.Record(outcome))
	assert.NotZero(t, outcome.ID)

	assert.NoError(t, w.Record(&schema.SubmissionOutcome{
		OwnerId: "owner-1",
		Kind:    schema.SubmitKindPayment,
		TxId:    "tx-2",
		Status:  schema.OutcomeConfirmationTimedOut,
	}))

	outcomes, err := w.GetOutcomesByOwner("owner-1", 10)
	assert.NoError(t, err)
	assert.Len(t, outcomes, 2)
	// newest first
	assert.Equal(t, "tx-2", outcomes[0].TxId)

	unpublished, err := w.GetUnpublishedOutcomes(10)
	assert.NoError(t, err)
	assert.Len(t, unpublished, 2)

	assert.NoError(t, w.MarkOutcomePublished(unpublished[0].ID))
	unpublished, err = w.GetUnpublishedOutcomes(10)
	assert.NoError(t, err)
	assert.Len(t, unpublished, 1)
}

func TestCampaigns(t *testing.T) {
	w := newTestWdb(t)

	campaign := schema.Campaign{
		OwnerId:       "owner-1",
		Title:         "Clean water fund",
		GoalMicro:     10000000,
		WalletAddress: "ADDR1",
		Active:        true,
	}
	assert.NoError(t, w.InsertCampaign(&campaign))
	assert.NotZero(t, campaign.ID)

	inactive := schema.Campaign{OwnerId: "owner-2", Title: "Closed drive", Active: false}
	assert.NoError(t, w.InsertCampaign(&inactive))

	campaigns, err := w.GetCampaigns(10)
	assert.NoError(t, err)
	assert.Len(t, campaigns, 1)
	assert.Equal(t, "Clean water fund", campaigns[0].Title)

	assert.NoError(t, w.AddCampaignRaised(campaign.ID, 500000))
	assert.NoError(t, w.AddCampaignRaised(campaign.ID, 250000))
	got, err := w.GetCampaign(campaign.ID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(750000), got.RaisedMicro)

	_, err = w.GetCampaign(9999)
	assert.Equal(t, schema.ErrNotExist, err)
}

func TestChatRecords(t *testing.T) {
	w := newTestWdb(t)

	assert.NoError(t, w.InsertChatRecord(schema.ChatRecord{
		OwnerId:  "owner-1",
		Message:  "how do I mint a token",
		Response: "use the Mint ASA tab",
		Context:  schema.ChatContextDapp,
	}))

	records, err := w.GetChatRecordsByOwner("owner-1", 10)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, schema.ChatContextDapp, records[0].Context)

	records, err = w.GetChatRecordsByOwner("owner-2", 10)
	assert.NoError(t, err)
	assert.Len(t, records, 0)
}
