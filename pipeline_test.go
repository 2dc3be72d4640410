package algopay

import (
	"context"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/usheguard/algopay/schema"
)

type mockLedger struct {
	fetchCalls     int
	broadcastCalls int
	awaitCalls     int

	fetchErr     error
	broadcastErr error
	confirmation Confirmation
	awaitErr     error
}

func (m *mockLedger) FetchFeeParameters(ctx context.Context) (types.SuggestedParams, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return types.SuggestedParams{}, m.fetchErr
	}
	return testSuggestedParams(), nil
}

func (m *mockLedger) Broadcast(ctx context.Context, signedTx []byte) (string, error) {
	m.broadcastCalls++
	if m.broadcastErr != nil {
		return "", m.broadcastErr
	}
	return "mock-txid", nil
}

func (m *mockLedger) AwaitConfirmation(ctx context.Context, txId string, maxRounds uint64) (Confirmation, error) {
	m.awaitCalls++
	if m.awaitErr != nil {
		return Confirmation{TxId: txId}, m.awaitErr
	}
	conf := m.confirmation
	conf.TxId = txId
	return conf, nil
}

type mockRecorder struct {
	records []schema.SubmissionOutcome
	err     error
}

func (m *mockRecorder) Record(outcome *schema.SubmissionOutcome) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *outcome)
	return nil
}

func newTestHolder(t *testing.T) (schema.Holder, string) {
	acct := crypto.GenerateAccount()
	mn, err := mnemonic.FromPrivateKey(acct.PrivateKey)
	assert.NoError(t, err)
	holder := schema.Holder{
		OwnerId:  "owner-1",
		Address:  acct.Address.String(),
		Mnemonic: mn,
	}
	return holder, crypto.GenerateAccount().Address.String()
}

func TestPipelineRejectsInvalidIntentBeforeNetwork(t *testing.T) {
	ledger := &mockLedger{}
	recorder := &mockRecorder{}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, to := newTestHolder(t)

	intent := schema.TransferIntent{To: to, AmountMicro: 999}
	outcome, err := p.SubmitPayment(context.Background(), holder, intent)

	var invalid *schema.InvalidIntentError
	assert.True(t, errors.As(err, &invalid))
	assert.Nil(t, outcome)
	assert.Equal(t, 0, ledger.fetchCalls)
	assert.Equal(t, 0, ledger.broadcastCalls)
	assert.Len(t, recorder.records, 0)
}

func TestPipelineConfirmed(t *testing.T) {
	ledger := &mockLedger{confirmation: Confirmation{ConfirmedRound: 3}}
	recorder := &mockRecorder{}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, to := newTestHolder(t)

	amountMicro, err := schema.ParseDisplayAmount("0.5")
	assert.NoError(t, err)

	intent := schema.TransferIntent{To: to, AmountMicro: amountMicro}
	outcome, err := p.SubmitPayment(context.Background(), holder, intent)

	assert.NoError(t, err)
	assert.Equal(t, schema.OutcomeConfirmed, outcome.Status)
	assert.Equal(t, uint64(3), outcome.ConfirmedRound)
	assert.Equal(t, uint64(500000), outcome.AmountMicro)
	assert.NotEmpty(t, outcome.TxId)
	assert.False(t, outcome.RecordWarning)

	assert.Equal(t, 1, ledger.fetchCalls)
	assert.Equal(t, 1, ledger.broadcastCalls)
	assert.Equal(t, 1, ledger.awaitCalls)
	assert.Len(t, recorder.records, 1)
	assert.Equal(t, schema.OutcomeConfirmed, recorder.records[0].Status)
}

func TestPipelineConfirmationTimeout(t *testing.T) {
	ledger := &mockLedger{awaitErr: schema.ErrConfirmationTimeout}
	recorder := &mockRecorder{}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, to := newTestHolder(t)

	intent := schema.TransferIntent{To: to, AmountMicro: 500000}
	outcome, err := p.SubmitPayment(context.Background(), holder, intent)

	assert.True(t, errors.Is(err, schema.ErrConfirmationTimeout))
	assert.Equal(t, schema.OutcomeConfirmationTimedOut, outcome.Status)
	assert.NotEmpty(t, outcome.TxId)
	assert.Len(t, recorder.records, 1)
	assert.Equal(t, schema.OutcomeConfirmationTimedOut, recorder.records[0].Status)
}

// a node failure after a successful broadcast must not be reported as the
// retryable network-unavailable class; funds may already have moved
func TestPipelineAwaitNetworkFailureReportsTimeout(t *testing.T) {
	ledger := &mockLedger{awaitErr: schema.ErrNetworkUnavailable}
	recorder := &mockRecorder{}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, to := newTestHolder(t)

	intent := schema.TransferIntent{To: to, AmountMicro: 500000}
	outcome, err := p.SubmitPayment(context.Background(), holder, intent)

	assert.Equal(t, 1, ledger.broadcastCalls)
	assert.True(t, errors.Is(err, schema.ErrConfirmationTimeout))
	assert.False(t, errors.Is(err, schema.ErrNetworkUnavailable))
	assert.Equal(t, schema.OutcomeConfirmationTimedOut, outcome.Status)
	assert.Equal(t, schema.ErrNetworkUnavailable.Error(), outcome.ErrMsg)
	assert.NotEmpty(t, outcome.TxId)
	assert.Len(t, recorder.records, 1)
}

func TestPipelineBroadcastRejected(t *testing.T) {
	ledger := &mockLedger{broadcastErr: &schema.RejectedByNetworkError{Reason: "insufficient funds"}}
	recorder := &mockRecorder{}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, to := newTestHolder(t)

	intent := schema.TransferIntent{To: to, AmountMicro: 500000}
	outcome, err := p.SubmitPayment(context.Background(), holder, intent)

	var rejected *schema.RejectedByNetworkError
	assert.True(t, errors.As(err, &rejected))
	assert.Equal(t, "insufficient funds", rejected.Reason)
	assert.Equal(t, schema.OutcomeBroadcastFailed, outcome.Status)
	assert.Equal(t, 0, ledger.awaitCalls)
	assert.Len(t, recorder.records, 1)
}

func TestPipelineNetworkUnavailableBeforeBroadcast(t *testing.T) {
	ledger := &mockLedger{fetchErr: schema.ErrNetworkUnavailable}
	recorder := &mockRecorder{}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, to := newTestHolder(t)

	intent := schema.TransferIntent{To: to, AmountMicro: 500000}
	outcome, err := p.SubmitPayment(context.Background(), holder, intent)

	assert.True(t, errors.Is(err, schema.ErrNetworkUnavailable))
	assert.Nil(t, outcome)
	assert.Equal(t, 0, ledger.broadcastCalls)
	assert.Len(t, recorder.records, 0)
}

func TestPipelineRecorderFailureKeepsChainResult(t *testing.T) {
	ledger := &mockLedger{confirmation: Confirmation{ConfirmedRound: 7}}
	recorder := &mockRecorder{err: errors.New("db down")}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, to := newTestHolder(t)

	intent := schema.TransferIntent{To: to, AmountMicro: 500000}
	outcome, err := p.SubmitPayment(context.Background(), holder, intent)

	assert.NoError(t, err)
	assert.Equal(t, schema.OutcomeConfirmed, outcome.Status)
	assert.Equal(t, uint64(7), outcome.ConfirmedRound)
	assert.True(t, outcome.RecordWarning)
}

func TestPipelineDonationOutcomeFields(t *testing.T) {
	ledger := &mockLedger{confirmation: Confirmation{ConfirmedRound: 5}}
	recorder := &mockRecorder{}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, to := newTestHolder(t)

	intent := schema.TransferIntent{To: to, AmountMicro: 2000000, Note: []byte("keep it up")}
	outcome, err := p.SubmitDonation(context.Background(), holder, intent, "keep it up", true)

	assert.NoError(t, err)
	assert.Equal(t, schema.SubmitKindDonation, outcome.Kind)
	assert.Equal(t, "keep it up", outcome.Note)
	assert.True(t, outcome.Anonymous)
	assert.Equal(t, to, outcome.Counterparty)
}

func TestPipelineAssetCreation(t *testing.T) {
	ledger := &mockLedger{confirmation: Confirmation{ConfirmedRound: 9, AssetId: 12345}}
	recorder := &mockRecorder{}
	p := NewPipeline(ledger, recorder, DefaultMaxWaitRounds)
	holder, _ := newTestHolder(t)

	intent := schema.AssetCreationIntent{
		AssetName:   "My Token",
		UnitName:    "MTK",
		TotalSupply: 100,
	}
	outcome, err := p.SubmitAssetCreation(context.Background(), holder, intent)

	assert.NoError(t, err)
	assert.Equal(t, schema.SubmitKindAssetCreation, outcome.Kind)
	assert.Equal(t, uint64(12345), outcome.AssetId)
	assert.Equal(t, uint64(9), outcome.ConfirmedRound)
	assert.Len(t, recorder.records, 1)
}
