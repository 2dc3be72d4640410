package algopay

import (
	"context"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/usheguard/algopay/schema"
)

// DefaultMaxWaitRounds bounds the confirmation wait; the chain finalizes a
// round roughly every 4.5s.
const DefaultMaxWaitRounds = 4

// Confirmation is the network's acknowledgment that a broadcast transaction
// was included in a round.
type Confirmation struct {
	TxId           string
	ConfirmedRound uint64
	AssetId        uint64 // set for asset-creation transactions
}

// LedgerClient is the only surface that talks to the chain. Fee parameters
// must be fetched fresh per pipeline run; validity windows expire.
type LedgerClient interface {
	FetchFeeParameters(ctx context.Context) (types.SuggestedParams, error)
	Broadcast(ctx context.Context, signedTx []byte) (string, error)
	AwaitConfirmation(ctx context.Context, txId string, maxRounds uint64) (Confirmation, error)
}

type AlgodLedger struct {
	cli *algod.Client
}

func NewLedger(nodeUrl, apiToken string) (*AlgodLedger, error) {
	cli, err := algod.MakeClient(nodeUrl, apiToken)
	if err != nil {
		return nil, err
	}
	return &AlgodLedger{cli: cli}, nil
}

func (l *AlgodLedger) FetchFeeParameters(ctx context.Context) (types.SuggestedParams, error) {
	sp, err := l.cli.SuggestedParams().Do(ctx)
	if err != nil {
		log.Error("fetch suggested params", "err", err)
		return types.SuggestedParams{}, schema.ErrNetworkUnavailable
	}
	return sp, nil
}

func (l *AlgodLedger) Broadcast(ctx context.Context, signedTx []byte) (string, error) {
	txId, err := l.cli.SendRawTransaction(signedTx).Do(ctx)
	if err != nil {
		return "", translateBroadcastErr(err)
	}
	return txId, nil
}

// AwaitConfirmation blocks the calling pipeline run until the transaction is
// included or maxRounds network rounds elapse.
func (l *AlgodLedger) AwaitConfirmation(ctx context.Context, txId string, maxRounds uint64) (Confirmation, error) {
	if maxRounds == 0 {
		maxRounds = DefaultMaxWaitRounds
	}
	status, err := l.cli.Status().Do(ctx)
	if err != nil {
		log.Error("fetch node status", "err", err)
		return Confirmation{TxId: txId}, schema.ErrNetworkUnavailable
	}

	current := status.LastRound
	last := status.LastRound + maxRounds
	for current <= last {
		if err = ctx.Err(); err != nil {
			return Confirmation{TxId: txId}, err
		}
		pend, _, err := l.cli.PendingTransactionInformation(txId).Do(ctx)
		if err != nil {
			log.Error("fetch pending tx info", "err", err, "txId", txId)
			return Confirmation{TxId: txId}, schema.ErrNetworkUnavailable
		}
		if pend.ConfirmedRound > 0 {
			return Confirmation{
				TxId:           txId,
				ConfirmedRound: pend.ConfirmedRound,
				AssetId:        pend.AssetIndex,
			}, nil
		}
		if pend.PoolError != "" {
			return Confirmation{TxId: txId}, &schema.RejectedByNetworkError{Reason: userFacingReason(pend.PoolError)}
		}
		if current == last {
			break
		}
		if _, err = l.cli.StatusAfterBlock(current).Do(ctx); err != nil {
			log.Error("wait for round", "err", err, "round", current)
			return Confirmation{TxId: txId}, schema.ErrNetworkUnavailable
		}
		current++
	}
	return Confirmation{TxId: txId}, schema.ErrConfirmationTimeout
}

func (l *AlgodLedger) AccountInformation(ctx context.Context, address string) (models.Account, error) {
	return l.cli.AccountInformation(address).Do(ctx)
}

func (l *AlgodLedger) NodeStatus(ctx context.Context) (models.NodeStatus, error) {
	return l.cli.Status().Do(ctx)
}

func translateBroadcastErr(err error) error {
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "no such host", "timeout", "deadline exceeded", "eof"} {
		if strings.Contains(msg, s) {
			log.Error("broadcast node unreachable", "err", err)
			return schema.ErrNetworkUnavailable
		}
	}
	return &schema.RejectedByNetworkError{Reason: userFacingReason(msg)}
}

func userFacingReason(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "overspend") || strings.Contains(msg, "insufficient funds") || strings.Contains(msg, "below min"):
		return "insufficient funds"
	case strings.Contains(msg, "malformed address") || strings.Contains(msg, "invalid address") || strings.Contains(msg, "checksum"):
		return "invalid address"
	case strings.Contains(msg, "account does not exist") || strings.Contains(msg, "no accounts"):
		return "unknown account"
	case strings.Contains(msg, "already in ledger") || strings.Contains(msg, "transaction already"):
		return "duplicate transaction"
	default:
		return msg
	}
}
