package paymentgateway

import (
	"encoding/json"
	"fmt"
	"time"

	"sokofiti/internal/shared/biztime"
)

// STKCallbackEnvelope is the wire shape Daraja posts to the callback URL.
type STKCallbackEnvelope struct {
	Body struct {
		STKCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []CallbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackItem is one name/value pair of the callback metadata. Values are
// numbers or strings depending on the item.
type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// CallbackResult is the parsed, flattened form of a callback envelope.
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            int64
	ReceiptNumber     string
	PhoneNumber       string
	TransactionDate   *time.Time
}

// Result flattens the envelope. Metadata is present only on success; missing
// or malformed items are skipped, never fatal, because the result code alone
// is enough to finalize the transaction.
func (e *STKCallbackEnvelope) Result() CallbackResult {
	cb := e.Body.STKCallback
	result := CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			var amount float64
			if err := json.Unmarshal(item.Value, &amount); err == nil {
				result.Amount = int64(amount)
			}
		case "MpesaReceiptNumber":
			var receipt string
			if err := json.Unmarshal(item.Value, &receipt); err == nil {
				result.ReceiptNumber = receipt
			}
		case "PhoneNumber":
			result.PhoneNumber = rawToString(item.Value)
		case "TransactionDate":
			if ts, err := biztime.ParseDarajaTimestamp(rawToString(item.Value)); err == nil {
				result.TransactionDate = &ts
			}
		}
	}
	return result
}

// rawToString renders a JSON number or string value as its literal text.
// Daraja sends phone numbers and dates as bare numbers.
func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// AckResponse is the fixed acknowledgement Daraja expects from the callback
// endpoint regardless of processing outcome.
type AckResponse struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// Ack returns the success acknowledgement.
func Ack() AckResponse {
	return AckResponse{ResultCode: 0, ResultDesc: "The service request is processed successfully."}
}

// ParseCallback decodes a raw callback body.
func ParseCallback(body []byte) (*STKCallbackEnvelope, error) {
	var envelope STKCallbackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed callback payload: %w", err)
	}
	return &envelope, nil
}
