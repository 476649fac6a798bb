package service

import (
	"net/http"

	"connectrpc.com/connect"
)

// Register mounts every route on mux.
func Register(mux *http.ServeMux, orders *OrderService, sheetSvc *SheetService, ledger *LedgerService, opts ...connect.HandlerOption) {
	mux.HandleFunc("POST /extract-order", orders.ExtractOrder)
	mux.HandleFunc("POST /test-sheet", sheetSvc.TestSheet)
	mux.HandleFunc("POST /write-sheet", sheetSvc.WriteSheet)

	ledgerPath, ledgerHandler := NewLedgerServiceHandler(ledger, opts...)
	mux.Handle(ledgerPath, ledgerHandler)
}
