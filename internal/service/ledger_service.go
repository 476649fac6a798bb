package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/metrics"
	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/session"
)

const (
	// LedgerServiceName is the fully-qualified name of the ledger service.
	LedgerServiceName = "splitshare.v1.LedgerService"

	// LedgerServiceComputeLedgerProcedure is the full path of ComputeLedger.
	LedgerServiceComputeLedgerProcedure = "/splitshare.v1.LedgerService/ComputeLedger"
)

// ComputeLedgerRequest describes an order and how it is shared. The order is
// given either as canonical Items or as a raw extraction Payload.
type ComputeLedgerRequest struct {
	Participants []string          `json:"participants"`
	Items        []models.Item     `json:"items,omitempty"`
	Order        *models.OrderMeta `json:"order,omitempty"`
	Payload      json.RawMessage   `json:"payload,omitempty"`

	// Assignments maps item indexes to participant names. They are applied
	// after the items are loaded and replace any assignment on the item.
	Assignments map[int][]string `json:"assignments,omitempty"`

	// Marked renders bold cells as "**text**" in Values.
	Marked bool `json:"marked,omitempty"`
}

// ComputeLedgerResponse is the computed ledger in exportable form.
type ComputeLedgerResponse struct {
	Table        calculator.Table   `json:"table"`
	Values       [][]any            `json:"values"`
	PersonTotals map[string]float64 `json:"personTotals"`
	GrandTotal   float64            `json:"grandTotal"`
	TaxAmount    float64            `json:"taxAmount"`
	Total        float64            `json:"total"`
}

var errItemsAndPayload = errors.New("provide either items or payload, not both")

// LedgerService computes ledgers for clients that delegate the allocation.
type LedgerService struct {
	metrics *metrics.Metrics
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(m *metrics.Metrics) *LedgerService {
	return &LedgerService{metrics: m}
}

// ComputeLedger builds a session from the request and returns its ledger.
func (s *LedgerService) ComputeLedger(ctx context.Context, req *connect.Request[ComputeLedgerRequest]) (*connect.Response[ComputeLedgerResponse], error) {
	msg := req.Msg
	slog.Debug("ComputeLedger request received",
		"participants", len(msg.Participants),
		"items", len(msg.Items),
		"payload_bytes", len(msg.Payload),
		"assignments", len(msg.Assignments),
	)

	sess, err := buildSession(msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	ledger := sess.Ledger()
	table := calculator.FormatTable(ledger)
	values := table.Values()
	if msg.Marked {
		values = table.MarkedValues()
	}
	s.metrics.LedgersComputed.Inc()

	for _, p := range ledger.Participants {
		slog.Debug("Person total", "person", p, "total", ledger.PersonTotals[p])
	}

	return connect.NewResponse(&ComputeLedgerResponse{
		Table:        table,
		Values:       values,
		PersonTotals: ledger.PersonTotals,
		GrandTotal:   ledger.GrandTotal,
		TaxAmount:    ledger.TaxAmount,
		Total:        ledger.Total(),
	}), nil
}

func buildSession(msg *ComputeLedgerRequest) (*session.Session, error) {
	if len(msg.Items) > 0 && len(msg.Payload) > 0 {
		return nil, errItemsAndPayload
	}

	sess := session.New()
	for _, p := range msg.Participants {
		if _, err := sess.AddParticipant(p); err != nil {
			return nil, err
		}
	}

	if len(msg.Payload) > 0 {
		if _, err := sess.LoadExtraction(msg.Payload); err != nil {
			return nil, err
		}
		if msg.Order != nil {
			sess.SetOrder(sess.Items(), *msg.Order)
		}
	} else {
		var order models.OrderMeta
		if msg.Order != nil {
			order = *msg.Order
		}
		sess.SetOrder(msg.Items, order)
	}

	if err := sess.AssignAll(msg.Assignments); err != nil {
		return nil, err
	}
	return sess, nil
}

// NewLedgerServiceHandler builds an HTTP handler for the service and
// returns the path to mount it on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	computeLedger := connect.NewUnaryHandler(LedgerServiceComputeLedgerProcedure, svc.ComputeLedger, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceComputeLedgerProcedure, computeLedger)
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls the ledger service.
type LedgerServiceClient struct {
	computeLedger *connect.Client[ComputeLedgerRequest, ComputeLedgerResponse]
}

// NewLedgerServiceClient creates a client for the server at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &LedgerServiceClient{
		computeLedger: connect.NewClient[ComputeLedgerRequest, ComputeLedgerResponse](
			httpClient,
			strings.TrimRight(baseURL, "/")+LedgerServiceComputeLedgerProcedure,
			opts...,
		),
	}
}

// ComputeLedger calls splitshare.v1.LedgerService.ComputeLedger.
func (c *LedgerServiceClient) ComputeLedger(ctx context.Context, req *connect.Request[ComputeLedgerRequest]) (*connect.Response[ComputeLedgerResponse], error) {
	return c.computeLedger.CallUnary(ctx, req)
}

// jsonCodec serializes plain Go structs with encoding/json. It replaces
// Connect's default "json" codec, which only handles protobuf messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
