package paymentgateway

import "context"

// STKPushRequest carries the inputs of a Lipa na M-Pesa Online push.
type STKPushRequest struct {
	PhoneNumber      string
	Amount           int64
	AccountReference string
	Description      string
}

// STKPushResponse is the gateway's synchronous answer to a push request.
type STKPushResponse struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// StatusQueryResponse is the answer to an STK push status query.
type StatusQueryResponse struct {
	ResponseCode      string
	ResultCode        int
	ResultDesc        string
	MerchantRequestID string
	CheckoutRequestID string
}

// STKGateway abstracts the mobile-money gateway so use cases never talk HTTP.
// Implementations must honor ctx cancellation.
type STKGateway interface {
	// RequestSTKPush asks the gateway to prompt the payer's phone.
	RequestSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error)
	// QueryStatus asks the gateway for the outcome of an earlier push.
	QueryStatus(ctx context.Context, checkoutRequestID string) (*StatusQueryResponse, error)
}
