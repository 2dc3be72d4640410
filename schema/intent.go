package schema

import (
	"fmt"
	"math"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/shopspring/decimal"
)

const (
	// MinTransferAmount is the smallest payable amount in micro units (0.001 ALGO).
	MinTransferAmount = 1000

	MaxNoteBytes = 1000

	MaxAssetNameLength = 32
	MaxUnitNameLength  = 8
	MaxAssetUrlLength  = 96
	MaxAssetDecimals   = 6

	MicroUnitsPerUnit = 1000000
)

// TransferIntent describes a payment before it is built into a transaction.
// Amount is always integer micro units; display-unit values are converted at
// the API boundary via ParseDisplayAmount.
type TransferIntent struct {
	From        string
	To          string
	AmountMicro uint64
	Note        []byte
}

func (t TransferIntent) Validate() error {
	if t.AmountMicro < MinTransferAmount {
		return &InvalidIntentError{Field: "amount", Reason: fmt.Sprintf("below minimum of %d micro units", MinTransferAmount)}
	}
	if _, err := types.DecodeAddress(t.To); err != nil {
		return &InvalidIntentError{Field: "to", Reason: "invalid recipient address"}
	}
	if len(t.Note) > MaxNoteBytes {
		return &InvalidIntentError{Field: "note", Reason: fmt.Sprintf("exceeds %d bytes", MaxNoteBytes)}
	}
	return nil
}

// AssetAuthorities carries the four asset admin roles independently. An empty
// field means no authority; callers opt in per role.
type AssetAuthorities struct {
	Manager  string `json:"manager"`
	Reserve  string `json:"reserve"`
	Freeze   string `json:"freeze"`
	Clawback string `json:"clawback"`
}

func (a AssetAuthorities) Validate() error {
	for field, addr := range map[string]string{
		"manager":  a.Manager,
		"reserve":  a.Reserve,
		"freeze":   a.Freeze,
		"clawback": a.Clawback,
	} {
		if addr == "" {
			continue
		}
		if _, err := types.DecodeAddress(addr); err != nil {
			return &InvalidIntentError{Field: field, Reason: "invalid authority address"}
		}
	}
	return nil
}

type AssetCreationIntent struct {
	From        string
	AssetName   string
	UnitName    string
	TotalSupply uint64
	Decimals    uint32
	MetadataUrl string
	Authorities AssetAuthorities
}

func (t AssetCreationIntent) Validate() error {
	if t.AssetName == "" {
		return &InvalidIntentError{Field: "assetName", Reason: "can not be null"}
	}
	if len(t.AssetName) > MaxAssetNameLength {
		return &InvalidIntentError{Field: "assetName", Reason: fmt.Sprintf("exceeds %d characters", MaxAssetNameLength)}
	}
	if t.UnitName == "" {
		return &InvalidIntentError{Field: "unitName", Reason: "can not be null"}
	}
	if len(t.UnitName) > MaxUnitNameLength {
		return &InvalidIntentError{Field: "unitName", Reason: fmt.Sprintf("exceeds %d characters", MaxUnitNameLength)}
	}
	if t.TotalSupply < 1 {
		return &InvalidIntentError{Field: "totalSupply", Reason: "must be at least 1"}
	}
	if t.Decimals > MaxAssetDecimals {
		return &InvalidIntentError{Field: "decimals", Reason: fmt.Sprintf("must be between 0 and %d", MaxAssetDecimals)}
	}
	if len(t.MetadataUrl) > MaxAssetUrlLength {
		return &InvalidIntentError{Field: "metadataUrl", Reason: fmt.Sprintf("exceeds %d characters", MaxAssetUrlLength)}
	}
	return t.Authorities.Validate()
}

// ParseDisplayAmount converts a display-unit amount ("0.5") to micro units.
// Floating point never crosses this boundary; the value must be expressible
// as a positive integer number of micro units.
func ParseDisplayAmount(amount string) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, &InvalidIntentError{Field: "amount", Reason: "not a decimal number"}
	}
	micro := d.Shift(6)
	if !micro.Equal(micro.Truncate(0)) {
		return 0, &InvalidIntentError{Field: "amount", Reason: "precision exceeds micro units"}
	}
	if micro.Sign() <= 0 {
		return 0, &InvalidIntentError{Field: "amount", Reason: "must be positive"}
	}
	if micro.Cmp(decimal.NewFromInt(math.MaxInt64)) > 0 {
		return 0, &InvalidIntentError{Field: "amount", Reason: "out of range"}
	}
	return uint64(micro.IntPart()), nil
}

// FormatDisplayAmount renders micro units back to display units for responses.
func FormatDisplayAmount(amountMicro uint64) string {
	return decimal.New(int64(amountMicro), -6).String()
}
