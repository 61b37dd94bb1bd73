package amqp

import (
	"encoding/json"
	"time"
)

// ReportRequestMessage asks the worker to pre-render one report.
// It carries only the lookup keys; the worker fetches the financing
// data and overrides itself.
type ReportRequestMessage struct {
	CodigoIBGE  string    `json:"codigo_ibge"`
	Competencia string    `json:"competencia"`
	Kind        string    `json:"kind"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewReportRequestMessage creates a report request for one municipality
// and competência.
func NewReportRequestMessage(codigoIBGE, competencia, kind string) *ReportRequestMessage {
	return &ReportRequestMessage{
		CodigoIBGE:  codigoIBGE,
		Competencia: competencia,
		Kind:        kind,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestMessageFromJSON creates a message from JSON bytes
func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
