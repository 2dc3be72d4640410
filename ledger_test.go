package algopay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/stretchr/testify/assert"
	"github.com/usheguard/algopay/schema"
)

func TestTranslateBroadcastErr(t *testing.T) {
	err := translateBroadcastErr(errors.New("dial tcp: connection refused"))
	assert.True(t, errors.Is(err, schema.ErrNetworkUnavailable))

	err = translateBroadcastErr(errors.New("TransactionPool.Remember: overspend, account X tried to spend"))
	var rejected *schema.RejectedByNetworkError
	assert.True(t, errors.As(err, &rejected))
	assert.Equal(t, "insufficient funds", rejected.Reason)
}

// a never-confirming transaction is polled once per round of the wait window
// and the final poll is not followed by another round wait
func TestAwaitConfirmationTimeoutWindow(t *testing.T) {
	var waitCalls, pendingCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"last-round":100}`)
	})
	mux.HandleFunc("/v2/status/wait-for-block-after/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&waitCalls, 1)
		fmt.Fprint(w, `{"last-round":101}`)
	})
	mux.HandleFunc("/v2/transactions/pending/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pendingCalls, 1)
		w.Write(msgpack.Encode(&models.PendingTransactionResponse{}))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l, err := NewLedger(srv.URL, "")
	assert.NoError(t, err)

	_, err = l.AwaitConfirmation(context.Background(), "sometxid", 4)
	assert.True(t, errors.Is(err, schema.ErrConfirmationTimeout))
	assert.Equal(t, int32(5), atomic.LoadInt32(&pendingCalls)) // rounds 100..104
	assert.Equal(t, int32(4), atomic.LoadInt32(&waitCalls))
}

func TestUserFacingReason(t *testing.T) {
	assert.Equal(t, "insufficient funds", userFacingReason("overspend, tried to spend 100"))
	assert.Equal(t, "invalid address", userFacingReason("malformed address checksum"))
	assert.Equal(t, "unknown account", userFacingReason("account does not exist"))
	assert.Equal(t, "duplicate transaction", userFacingReason("transaction already in ledger"))
	assert.Equal(t, "some other failure", userFacingReason("Some Other Failure"))
}
