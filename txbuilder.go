package algopay

import (
	"crypto/ed25519"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/usheguard/algopay/schema"
)

// BuildPayment constructs and signs a payment transaction. Pure: no network
// access, no side effects. The amount is already integer micro units.
func BuildPayment(intent schema.TransferIntent, params types.SuggestedParams, sk ed25519.PrivateKey) (string, []byte, error) {
	if err := intent.Validate(); err != nil {
		return "", nil, err
	}
	txn, err := transaction.MakePaymentTxn(intent.From, intent.To, intent.AmountMicro, intent.Note, "", params)
	if err != nil {
		return "", nil, &schema.InvalidIntentError{Field: "payment", Reason: err.Error()}
	}
	return crypto.SignTransaction(sk, txn)
}

// BuildAssetCreation constructs and signs an asset-creation transaction. The
// admin roles come from the intent's authorities; unset roles stay unset
// instead of defaulting to the creator.
func BuildAssetCreation(intent schema.AssetCreationIntent, params types.SuggestedParams, sk ed25519.PrivateKey) (string, []byte, error) {
	if err := intent.Validate(); err != nil {
		return "", nil, err
	}
	a := intent.Authorities
	txn, err := transaction.MakeAssetCreateTxn(
		intent.From, nil, params,
		intent.TotalSupply, intent.Decimals, false,
		a.Manager, a.Reserve, a.Freeze, a.Clawback,
		intent.UnitName, intent.AssetName, intent.MetadataUrl, "",
	)
	if err != nil {
		return "", nil, &schema.InvalidIntentError{Field: "assetCreation", Reason: err.Error()}
	}
	return crypto.SignTransaction(sk, txn)
}
