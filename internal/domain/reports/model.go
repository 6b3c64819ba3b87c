// Package reports builds stock balance and movement journal reports.
package reports

import (
	"time"

	"gims/internal/core/types"
)

// BalanceRow is one line of the stock balance report.
type BalanceRow struct {
	NacCode        string         `db:"nac_code" json:"nacCode"`
	ItemName       string         `db:"item_name" json:"itemName"`
	Unit           string         `db:"unit" json:"unit"`
	Location       string         `db:"location" json:"location"`
	CurrentBalance types.Quantity `db:"current_balance" json:"currentBalance"`
}

// Movement direction markers in the journal.
const (
	MovementReceive = "RECEIVE"
	MovementIssue   = "ISSUE"
)

// MovementRow is one line of the receive/issue journal.
type MovementRow struct {
	Date            time.Time      `db:"movement_date" json:"date"`
	Movement        string         `db:"movement" json:"movement"`
	NacCode         string         `db:"nac_code" json:"nacCode"`
	ItemName        string         `db:"item_name" json:"itemName"`
	Quantity        types.Quantity `db:"quantity" json:"quantity"`
	EquipmentNumber string         `db:"equipment_number" json:"equipmentNumber"`
	Reference       string         `db:"reference" json:"reference"`
}
