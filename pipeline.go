package algopay

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"

	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/usheguard/algopay/schema"
)

// OutcomeRecorder persists submission outcomes. Append-only; a failed write
// never changes the chain operation's result.
type OutcomeRecorder interface {
	Record(outcome *schema.SubmissionOutcome) error
}

// Pipeline runs one logical chain operation through
// validating -> building -> broadcasting -> confirming -> recording.
// Runs are independent; nothing is shared between them, so runs for
// different holders execute fully in parallel.
type Pipeline struct {
	ledger    LedgerClient
	recorder  OutcomeRecorder
	maxRounds uint64
}

func NewPipeline(ledger LedgerClient, recorder OutcomeRecorder, maxRounds uint64) *Pipeline {
	if maxRounds == 0 {
		maxRounds = DefaultMaxWaitRounds
	}
	return &Pipeline{
		ledger:    ledger,
		recorder:  recorder,
		maxRounds: maxRounds,
	}
}

type buildFunc func(params types.SuggestedParams, sk ed25519.PrivateKey) (string, []byte, error)

func (p *Pipeline) SubmitPayment(ctx context.Context, holder schema.Holder, intent schema.TransferIntent) (*schema.SubmissionOutcome, error) {
	intent.From = holder.Address
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	outcome := &schema.SubmissionOutcome{
		OwnerId:      holder.OwnerId,
		Kind:         schema.SubmitKindPayment,
		AmountMicro:  intent.AmountMicro,
		Counterparty: intent.To,
	}
	return p.run(ctx, holder, outcome, func(params types.SuggestedParams, sk ed25519.PrivateKey) (string, []byte, error) {
		return BuildPayment(intent, params, sk)
	})
}

func (p *Pipeline) SubmitDonation(ctx context.Context, holder schema.Holder, intent schema.TransferIntent, message string, anonymous bool) (*schema.SubmissionOutcome, error) {
	intent.From = holder.Address
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	outcome := &schema.SubmissionOutcome{
		OwnerId:      holder.OwnerId,
		Kind:         schema.SubmitKindDonation,
		AmountMicro:  intent.AmountMicro,
		Counterparty: intent.To,
		Note:         message,
		Anonymous:    anonymous,
	}
	return p.run(ctx, holder, outcome, func(params types.SuggestedParams, sk ed25519.PrivateKey) (string, []byte, error) {
		return BuildPayment(intent, params, sk)
	})
}

func (p *Pipeline) SubmitAssetCreation(ctx context.Context, holder schema.Holder, intent schema.AssetCreationIntent) (*schema.SubmissionOutcome, error) {
	intent.From = holder.Address
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	outcome := &schema.SubmissionOutcome{
		OwnerId: holder.OwnerId,
		Kind:    schema.SubmitKindAssetCreation,
		Note:    intent.AssetName,
	}
	if detail, err := json.Marshal(intent.Authorities); err == nil {
		outcome.Detail = detail
	}
	return p.run(ctx, holder, outcome, func(params types.SuggestedParams, sk ed25519.PrivateKey) (string, []byte, error) {
		return BuildAssetCreation(intent, params, sk)
	})
}

// run drives the shared stage sequence. Once broadcast succeeds the run
// always falls through to recording; exactly one outcome row per run that
// reached broadcasting.
func (p *Pipeline) run(ctx context.Context, holder schema.Holder, outcome *schema.SubmissionOutcome, build buildFunc) (*schema.SubmissionOutcome, error) {
	params, err := p.ledger.FetchFeeParameters(ctx)
	if err != nil {
		return nil, err
	}

	// the signing secret is decoded once per run and only lives on this stack
	sk, err := mnemonic.ToPrivateKey(holder.Mnemonic)
	if err != nil {
		return nil, &schema.InvalidIntentError{Field: "signingSecret", Reason: "holder signing secret undecodable"}
	}

	txId, signedTx, err := build(params, sk)
	if err != nil {
		return nil, err
	}
	outcome.TxId = txId

	if _, err = p.ledger.Broadcast(ctx, signedTx); err != nil {
		var rejected *schema.RejectedByNetworkError
		if !errors.As(err, &rejected) && !errors.Is(err, schema.ErrNetworkUnavailable) {
			err = &schema.RejectedByNetworkError{Reason: err.Error()}
		}
		outcome.Status = schema.OutcomeBroadcastFailed
		outcome.ErrMsg = err.Error()
		p.record(outcome)
		return outcome, err
	}

	conf, err := p.ledger.AwaitConfirmation(ctx, txId, p.maxRounds)
	switch {
	case err == nil:
		outcome.Status = schema.OutcomeConfirmed
		outcome.ConfirmedRound = conf.ConfirmedRound
		outcome.AssetId = conf.AssetId
	case errors.Is(err, schema.ErrConfirmationTimeout):
		// in flight, not lost: the tx may still land after maxRounds
		outcome.Status = schema.OutcomeConfirmationTimedOut
	default:
		var rejected *schema.RejectedByNetworkError
		if errors.As(err, &rejected) {
			outcome.Status = schema.OutcomeBroadcastFailed
			outcome.ErrMsg = rejected.Reason
		} else {
			// broadcast went out but the wait was cut short; the outcome is
			// unknown, so surface a timeout rather than a retryable network
			// error and let the caller check the chain before re-submitting
			outcome.Status = schema.OutcomeConfirmationTimedOut
			outcome.ErrMsg = err.Error()
			err = schema.ErrConfirmationTimeout
		}
	}
	p.record(outcome)
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (p *Pipeline) record(outcome *schema.SubmissionOutcome) {
	if err := p.recorder.Record(outcome); err != nil {
		// the chain result is authoritative; do not make the user re-attempt
		// a transfer because a database write failed
		outcome.RecordWarning = true
		log.Error("record submission outcome", "err", err, "txId", outcome.TxId, "status", outcome.Status)
	}
}
