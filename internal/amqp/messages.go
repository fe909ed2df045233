package amqp

import (
	"encoding/json"
	"time"
)

// RunCompletedMessage announces that a pipeline run replaced the fact
// tables. Consumers refetch whatever they need from the database; the
// message carries only run identity and row counts.
type RunCompletedMessage struct {
	RunDate        time.Time `json:"run_date"`
	Workbooks      int       `json:"workbooks"`
	LedgerRows     int       `json:"ledger_rows"`
	BalanceRows    int       `json:"balance_rows"`
	InvestmentRows int       `json:"investment_rows"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewRunCompletedMessage creates a run announcement stamped with the
// current time.
func NewRunCompletedMessage(runDate time.Time, workbooks, ledgerRows, balanceRows, investmentRows int) *RunCompletedMessage {
	return &RunCompletedMessage{
		RunDate:        runDate,
		Workbooks:      workbooks,
		LedgerRows:     ledgerRows,
		BalanceRows:    balanceRows,
		InvestmentRows: investmentRows,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RunCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RunCompletedMessageFromJSON creates a message from JSON bytes
func RunCompletedMessageFromJSON(data []byte) (*RunCompletedMessage, error) {
	var msg RunCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
